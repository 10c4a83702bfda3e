package runner_test

import (
	"context"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/jonmartinstorm/issuesnusern/internal/config"
	"github.com/jonmartinstorm/issuesnusern/internal/dbwriter"
	"github.com/jonmartinstorm/issuesnusern/internal/jsonwriter"
	"github.com/jonmartinstorm/issuesnusern/internal/project"
	"github.com/jonmartinstorm/issuesnusern/internal/runner"
	"github.com/jonmartinstorm/issuesnusern/internal/testutils"
)

var _ = Describe("BuildWriters", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	It("lager writers i oppgitt rekkefølge", func() {
		fake := testutils.NewFakeGraphQL(func(req testutils.GraphQLRequest) (any, error) {
			return map[string]any{"organization": map[string]any{"projectV2": map[string]any{
				"id":     "PVT_1",
				"fields": map[string]any{"nodes": []any{}},
			}}}, nil
		})
		defer fake.Close()

		cfg := config.Config{
			Org:           "status-im",
			Outputs:       []config.OutputType{config.OutputSQL, config.OutputJSON, config.OutputProject},
			SQLURL:        "sqlite://" + filepath.Join(GinkgoT().TempDir(), "issues.db"),
			ProjectNumber: 3,
			Parallelism:   1,
		}

		writers, err := runner.BuildWriters(ctx, cfg, fake.Client())
		Expect(err).NotTo(HaveOccurred())
		Expect(writers).To(HaveLen(3))
		Expect(writers[0]).To(BeAssignableToTypeOf(&dbwriter.SQLWriter{}))
		Expect(writers[1]).To(BeAssignableToTypeOf(&jsonwriter.JSONWriter{}))
		Expect(writers[2]).To(BeAssignableToTypeOf(&project.Board{}))

		Expect(fake.Requests()).To(HaveLen(1))
		Expect(writers[0].Close()).To(Succeed())
	})

	It("feiler på ukjent output", func() {
		cfg := config.Config{Outputs: []config.OutputType{config.OutputJSON, "kafka"}}
		_, err := runner.BuildWriters(ctx, cfg, nil)
		Expect(err).To(MatchError(ContainSubstring(`ukjent output "kafka"`)))
	})

	It("feiler når plattform-fila mangler", func() {
		cfg := config.Config{
			Outputs:         []config.OutputType{config.OutputProject},
			PlatformMapFile: filepath.Join(GinkgoT().TempDir(), "finnes-ikke.yaml"),
		}
		_, err := runner.BuildWriters(ctx, cfg, nil)
		Expect(err).To(HaveOccurred())
		Expect(strings.Contains(err.Error(), "plattform-fil")).To(BeTrue())
	})
})
