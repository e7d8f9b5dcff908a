package service

import (
	"os"
	"testing"

	"OnSite/pkg/logger"
	"OnSite/pkg/snowflake"
)

func TestMain(m *testing.M) {
	logger.Init()
	if err := snowflake.Init(1, 1); err != nil {
		panic(err)
	}

	os.Exit(m.Run())
}
