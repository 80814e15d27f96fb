package repository_test

import (
	"testing"

	"github.com/nikolayk812/storefront-cart/internal/repository"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"go.mongodb.org/mongo-driver/mongo"
)

type mongoStoreSuite struct {
	storeSuite

	db *mongo.Database
}

func TestMongoStoreSuite(t *testing.T) {
	suite.Run(t, new(mongoStoreSuite))
}

func (suite *mongoStoreSuite) SetupSuite() {
	ctx := suite.T().Context()

	container, uri, err := startMongo(ctx)
	testcontainers.CleanupContainer(suite.T(), container)
	suite.Require().NoError(err)

	suite.db, err = repository.ConnectMongoDB(ctx, uri, "storefront_test")
	suite.Require().NoError(err)

	suite.store = repository.NewMongo(suite.db)
}

func (suite *mongoStoreSuite) TearDownSuite() {
	if suite.db != nil {
		suite.NoError(suite.db.Client().Disconnect(suite.T().Context()))
	}
}
