package client_test

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/draganm/mnistmock/internal/models"
	"github.com/draganm/mnistmock/pkg/client"
)

func ExampleClient() {
	// Create a new client
	c := client.NewClient("http://localhost:8080")

	ctx := context.Background()

	// Stream ten labeled rows with a header to stdout
	err := c.DownloadDataset(ctx, client.DatasetRequest{
		Kind:   models.KindTrain,
		Rows:   10,
		Header: true,
		Seed:   42,
	}, os.Stdout)
	if err != nil {
		log.Fatal(err)
	}
}

func ExampleClient_manifests() {
	c := client.NewClient("http://localhost:8080")

	ctx := context.Background()

	manifests, err := c.ListDatasets(ctx, &client.ListDatasetsFilter{
		Kind:  models.KindTest,
		Limit: 10,
	})
	if err != nil {
		if client.IsUnavailable(err) {
			log.Fatal("server runs without a manifest database")
		}
		log.Fatal(err)
	}

	for _, m := range manifests {
		fmt.Printf("%s %s rows=%d sha256=%s\n", m.ID, m.Path, m.Rows, m.SHA256)
	}
}
