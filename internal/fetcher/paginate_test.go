package fetcher_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/jonmartinstorm/issuesnusern/internal/fetcher"
)

func ptr(s string) *string { return &s }

// fakePages returnerer sidene i rekkefølge og husker cursorene den ble kalt med.
type fakePages struct {
	pages   []fetcher.Page[int]
	failOn  int
	calls   int
	cursors []*string
}

func (f *fakePages) fetch(_ context.Context, cursor *string) (fetcher.Page[int], error) {
	f.cursors = append(f.cursors, cursor)
	f.calls++
	if f.failOn == f.calls {
		return fetcher.Page[int]{}, errors.New("nettverksfeil")
	}
	return f.pages[f.calls-1], nil
}

var _ = Describe("Paginate", func() {
	ctx := context.Background()

	It("skal slå sammen alle sidene i rekkefølge", func() {
		f := &fakePages{pages: []fetcher.Page[int]{
			{Items: []int{1, 2}, EndCursor: ptr("a"), HasNextPage: true},
			{Items: []int{3}, EndCursor: ptr("b"), HasNextPage: true},
			{Items: []int{4, 5}, EndCursor: ptr("c"), HasNextPage: false},
		}}

		got, err := fetcher.Paginate(ctx, f.fetch)
		Expect(err).NotTo(HaveOccurred())
		Expect(got).To(Equal([]int{1, 2, 3, 4, 5}))
		Expect(f.calls).To(Equal(3))
	})

	It("skal sende endCursor videre uendret", func() {
		f := &fakePages{pages: []fetcher.Page[int]{
			{Items: []int{1}, EndCursor: ptr("Y3Vyc29yOjE="), HasNextPage: true},
			{Items: []int{2}, EndCursor: ptr("Y3Vyc29yOjI="), HasNextPage: false},
		}}

		_, err := fetcher.Paginate(ctx, f.fetch)
		Expect(err).NotTo(HaveOccurred())
		Expect(f.cursors).To(HaveLen(2))
		Expect(f.cursors[0]).To(BeNil())
		Expect(*f.cursors[1]).To(Equal("Y3Vyc29yOjE="))
	})

	It("skal returnere tom, ikke-nil liste når første side er tom", func() {
		f := &fakePages{pages: []fetcher.Page[int]{{HasNextPage: false}}}

		got, err := fetcher.Paginate(ctx, f.fetch)
		Expect(err).NotTo(HaveOccurred())
		Expect(got).NotTo(BeNil())
		Expect(got).To(BeEmpty())
	})

	It("skal feile uten delresultat når side 2 av 3 feiler", func() {
		f := &fakePages{
			pages: []fetcher.Page[int]{
				{Items: []int{1}, EndCursor: ptr("a"), HasNextPage: true},
				{Items: []int{2}, EndCursor: ptr("b"), HasNextPage: true},
				{Items: []int{3}, HasNextPage: false},
			},
			failOn: 2,
		}

		got, err := fetcher.Paginate(ctx, f.fetch)
		Expect(err).To(MatchError("nettverksfeil"))
		Expect(got).To(BeNil())
		Expect(f.calls).To(Equal(2))
	})

	It("skal feile når serveren sier det finnes flere sider uten å gi cursor", func() {
		f := &fakePages{pages: []fetcher.Page[int]{{Items: []int{1}, HasNextPage: true}}}

		_, err := fetcher.Paginate(ctx, f.fetch)
		Expect(err).To(MatchError(fetcher.ErrMissingCursor))
	})

	It("skal stoppe når konteksten er kansellert", func() {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		f := &fakePages{pages: []fetcher.Page[int]{{Items: []int{1}}}}

		_, err := fetcher.Paginate(cctx, f.fetch)
		Expect(err).To(MatchError(context.Canceled))
		Expect(f.calls).To(Equal(0))
	})
})
