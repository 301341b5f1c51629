package e2e_test

import (
	"bytes"
	"path/filepath"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/draganm/mnistmock/internal/csvio"
	"github.com/draganm/mnistmock/internal/db"
	"github.com/draganm/mnistmock/internal/mockgen"
	"github.com/draganm/mnistmock/internal/models"
	"github.com/draganm/mnistmock/internal/utils"
	"github.com/draganm/mnistmock/pkg/client"
)

var _ = Describe("Mnistmock", func() {
	Describe("Health", func() {
		It("reports a connected database", func() {
			health, err := testClient.Health(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(health.Status).To(Equal("healthy"))
			Expect(health.Database).To(Equal("connected"))
		})
	})

	Describe("Generating files with manifests", func() {
		var (
			conn      *db.Connection
			manifests []models.Manifest
			dir       string
		)

		BeforeEach(func() {
			var err error
			conn, err = db.Open(ctx, db.Config{DatabaseURL: dbURL})
			Expect(err).NotTo(HaveOccurred())
			DeferCleanup(conn.Close)

			dir = createTempDir()
			cfg := mockgen.DefaultConfig()
			cfg.TrainPath = filepath.Join(dir, "train.csv")
			cfg.TestPath = filepath.Join(dir, "test.csv")
			cfg.Seed = 2024

			p, err := mockgen.New(cfg, mockgen.WithRecorder(conn))
			Expect(err).NotTo(HaveOccurred())

			manifests, err = p.Run(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(manifests).To(HaveLen(2))
		})

		It("writes files matching their manifests", func() {
			for _, m := range manifests {
				sum, err := utils.FileSHA256(m.Path)
				Expect(err).NotTo(HaveOccurred())
				Expect(sum).To(Equal(m.SHA256))

				ds, _, err := csvio.ReadFile(m.Path, true)
				Expect(err).NotTo(HaveOccurred())
				Expect(ds).To(HaveLen(m.Rows))
				Expect(csvio.Check(ds, m.Labeled)).To(Succeed())
			}
		})

		It("serves recorded manifests by ID", func() {
			for _, m := range manifests {
				got, err := testClient.GetDataset(ctx, m.ID)
				Expect(err).NotTo(HaveOccurred())
				Expect(got.Kind).To(Equal(m.Kind))
				Expect(got.Path).To(Equal(m.Path))
				Expect(got.SHA256).To(Equal(m.SHA256))
				Expect(got.Seed).To(Equal(int64(2024)))
			}
		})

		It("lists manifests filtered by kind", func() {
			list, err := testClient.ListDatasets(ctx, &client.ListDatasetsFilter{Kind: models.KindTest, Limit: 1000})
			Expect(err).NotTo(HaveOccurred())

			ids := make([]string, 0, len(list))
			for _, m := range list {
				Expect(m.Kind).To(Equal(models.KindTest))
				Expect(m.Labeled).To(BeFalse())
				ids = append(ids, m.ID.String())
			}
			Expect(ids).To(ContainElement(manifests[1].ID.String()))
		})
	})

	Describe("Streaming datasets", func() {
		It("reproduces a seeded dataset", func() {
			req := client.DatasetRequest{Kind: models.KindTrain, Rows: 25, Header: true, Seed: 7}

			var first, second bytes.Buffer
			Expect(testClient.DownloadDataset(ctx, req, &first)).To(Succeed())
			Expect(testClient.DownloadDataset(ctx, req, &second)).To(Succeed())
			Expect(first.String()).To(Equal(second.String()))

			ds, header, err := csvio.Read(&first, true)
			Expect(err).NotTo(HaveOccurred())
			Expect(ds).To(HaveLen(25))
			Expect(header).To(HaveLen(models.LabeledWidth))
		})

		It("rejects a header for an empty dataset", func() {
			err := testClient.DownloadDataset(ctx, client.DatasetRequest{Kind: models.KindTest, Rows: 0, Header: true}, &bytes.Buffer{})
			Expect(client.IsBadRequest(err)).To(BeTrue())
		})

		It("rejects more rows than the server allows", func() {
			err := testClient.DownloadDataset(ctx, client.DatasetRequest{Kind: models.KindTest, Rows: 1001}, &bytes.Buffer{})
			Expect(client.IsBadRequest(err)).To(BeTrue())
		})

		It("reports unknown manifests as not found", func() {
			_, err := testClient.GetDataset(ctx, uuid.New())
			Expect(client.IsNotFound(err)).To(BeTrue())
		})
	})
})
