//go:build integration

package dbwriter_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/jonmartinstorm/issuesnusern/internal/dbwriter"
	"github.com/jonmartinstorm/issuesnusern/internal/testutils"
)

var _ = Describe("SQLWriter mot Postgres", Ordered, func() {
	var (
		ctx context.Context
		pg  *testutils.TestPostgres
		w   *dbwriter.SQLWriter
	)

	BeforeAll(func() {
		ctx = context.Background()
		pg = testutils.StartTestPostgresContainer(ctx)

		var err error
		w, err = dbwriter.NewSQLWriter(ctx, pg.URL)
		Expect(err).NotTo(HaveOccurred())
		Expect(w.Init(ctx, true)).To(Succeed())
	})

	AfterAll(func() {
		Expect(w.Close()).To(Succeed())
		pg.Close()
	})

	It("skriver inn issues og oppdaterer ved ny kjøring", func() {
		repo := testRepo()
		Expect(w.ImportRepo(ctx, repo)).To(Succeed())
		Expect(w.ImportRepo(ctx, repo)).To(Succeed())

		var count int
		Expect(w.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM issues WHERE repo = 'status-react'`).Scan(&count)).To(Succeed())
		Expect(count).To(Equal(3))
	})

	It("gir kumulative tall fra issue_chart", func() {
		counts, err := w.DailyCounts(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(counts).To(HaveLen(3))
		Expect(counts[0].Day).To(Equal(time.Date(2022, 3, 1, 0, 0, 0, 0, time.UTC)))
		Expect(counts[2]).To(Equal(dbwriter.DayCount{
			Day: time.Date(2022, 3, 3, 0, 0, 0, 0, time.UTC), Total: 3, Opened: 2, Closed: 1,
		}))
	})
})
