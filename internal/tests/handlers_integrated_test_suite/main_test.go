package handlers_integrated_test_suite

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/rogerio-castellano/inventory-system/internal/http/router"
)

func TestMain(m *testing.M) {
	dbURL := dbURLFromEnv()
	if dbURL == "" {
		fmt.Printf("skipping integrated handler tests: %s is not set\n", databaseURLEnv)
		os.Exit(0)
	}

	if err := setupTestRepos(context.Background(), dbURL, "secret"); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	var err error
	token, err = generateToken(router.NewRouter(), "admin", "secret")
	if err != nil {
		fmt.Printf("error generating token: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()
	database.Close()
	os.Exit(code)
}
