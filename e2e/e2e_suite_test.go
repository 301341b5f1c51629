package e2e_test

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"testing"
	"time"

	_ "github.com/lib/pq"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/draganm/mnistmock/internal/server"
	"github.com/draganm/mnistmock/pkg/client"
)

func TestE2E(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Mnistmock E2E Suite")
}

var (
	postgresContainer *postgres.PostgresContainer
	dbURL             string
	serverInstance    *server.Server
	serverURL         string
	testClient        client.Client
	ctx               context.Context
	cancel            context.CancelFunc
)

var _ = BeforeSuite(func() {
	ctx, cancel = context.WithCancel(context.Background())

	var err error
	postgresContainer, err = postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("mnistmock_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Minute),
		),
	)
	Expect(err).NotTo(HaveOccurred())

	dbURL, err = postgresContainer.ConnectionString(ctx, "sslmode=disable")
	Expect(err).NotTo(HaveOccurred())

	db, err := sql.Open("postgres", dbURL)
	Expect(err).NotTo(HaveOccurred())
	Expect(db.Ping()).To(Succeed())
	db.Close()

	serverInstance, err = server.New(&server.Config{
		DatabaseURL: dbURL,
		Port:        0,
		MaxRows:     1000,
	})
	Expect(err).NotTo(HaveOccurred())

	go func() {
		if err := serverInstance.Run(ctx); err != nil && err != context.Canceled {
			log.Printf("Server error: %v", err)
		}
	}()

	Eventually(serverInstance.Ready(), 30*time.Second).Should(BeClosed())

	serverURL = fmt.Sprintf("http://localhost:%d", serverInstance.Port())
	testClient = client.New(serverURL)

	Eventually(func() error {
		resp, err := http.Get(serverURL + "/api/v1/health")
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("server not healthy: %d", resp.StatusCode)
		}
		return nil
	}, 10*time.Second, 100*time.Millisecond).Should(Succeed())
})

var _ = AfterSuite(func() {
	if cancel != nil {
		cancel()
	}

	if postgresContainer != nil {
		err := postgresContainer.Terminate(context.Background())
		Expect(err).NotTo(HaveOccurred())
	}
})

func createTempDir() string {
	dir, err := os.MkdirTemp("", "mnistmock-test-*")
	Expect(err).NotTo(HaveOccurred())
	DeferCleanup(os.RemoveAll, dir)
	return dir
}
