package fetcher_test

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/jonmartinstorm/issuesnusern/internal/fetcher"
	"github.com/jonmartinstorm/issuesnusern/internal/models"
	"github.com/jonmartinstorm/issuesnusern/internal/testutils"
)

// fakeOrg svarer på repo- og issue-spørringene med sider på 100.
type fakeOrg struct {
	owner     string
	repos     []string
	issues    map[string][]map[string]any
	failRepos map[string]bool
}

func pageIndex(req testutils.GraphQLRequest) int {
	c := req.StringVar("cursor")
	if c == "" {
		return 0
	}
	n, _ := strconv.Atoi(strings.TrimPrefix(c, "c"))
	return n
}

func chunk[T any](items []T, idx int) ([]T, bool) {
	start := idx * fetcher.PageSize
	if start > len(items) {
		start = len(items)
	}
	end := start + fetcher.PageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end], end < len(items)
}

func pageInfo(idx int, hasNext bool) map[string]any {
	return map[string]any{"endCursor": fmt.Sprintf("c%d", idx+1), "hasNextPage": hasNext}
}

func (o *fakeOrg) handle(req testutils.GraphQLRequest) (any, error) {
	idx := pageIndex(req)

	if strings.Contains(req.Query, "repositoryOwner(") {
		names, hasNext := chunk(o.repos, idx)
		nodes := []map[string]any{}
		for _, n := range names {
			nodes = append(nodes, map[string]any{"name": n, "owner": map[string]any{"login": o.owner}})
		}
		return map[string]any{"repositoryOwner": map[string]any{"repositories": map[string]any{
			"nodes": nodes, "pageInfo": pageInfo(idx, hasNext),
		}}}, nil
	}

	name := req.StringVar("name")
	if o.failRepos[name] {
		return nil, fmt.Errorf("Could not resolve to a Repository with the name '%s/%s'.", o.owner, name)
	}
	nodes, hasNext := chunk(o.issues[name], idx)
	if nodes == nil {
		nodes = []map[string]any{}
	}
	return map[string]any{"repository": map[string]any{"issues": map[string]any{
		"nodes": nodes, "pageInfo": pageInfo(idx, hasNext),
	}}}, nil
}

func issueJSON(id string, number int, closed bool, assignee string) map[string]any {
	assignees := []map[string]any{}
	if assignee != "" {
		assignees = append(assignees, map[string]any{"login": assignee})
	}
	var closedAt any
	if closed {
		closedAt = "2022-03-02T10:00:00Z"
	}
	return map[string]any{
		"id":        id,
		"number":    number,
		"title":     "Issue " + id,
		"closed":    closed,
		"createdAt": "2022-03-01T10:00:00Z",
		"closedAt":  closedAt,
		"assignees": map[string]any{"nodes": assignees},
	}
}

func repoNames(n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("repo-%03d", i)
	}
	return names
}

var _ = Describe("IssueFetcher", func() {
	var (
		ctx    context.Context
		org    *fakeOrg
		server *testutils.FakeGraphQL
		f      *fetcher.IssueFetcher
	)

	BeforeEach(func() {
		ctx = context.Background()
		org = &fakeOrg{owner: "status-im", issues: map[string][]map[string]any{}, failRepos: map[string]bool{}}
		server = testutils.NewFakeGraphQL(func(req testutils.GraphQLRequest) (any, error) {
			return org.handle(req)
		})
		f = fetcher.NewIssueFetcher(server.Client())
	})

	AfterEach(func() {
		server.Close()
	})

	Describe("GetRepos", func() {
		DescribeTable("skal hente alle repos med ceil(N/100) kall",
			func(n, expectedCalls int) {
				org.repos = repoNames(n)

				repos, err := f.GetRepos(ctx, "status-im")
				Expect(err).NotTo(HaveOccurred())
				Expect(server.Requests()).To(HaveLen(expectedCalls))
				Expect(repos).To(HaveLen(n))

				seen := map[string]bool{}
				for i, r := range repos {
					Expect(r.Name).To(Equal(org.repos[i]))
					Expect(r.Owner).To(Equal("status-im"))
					Expect(seen[r.Name]).To(BeFalse())
					seen[r.Name] = true
				}
			},
			Entry("én side", 3, 1),
			Entry("nøyaktig 100", 100, 1),
			Entry("to sider", 101, 2),
			Entry("tre sider", 250, 3),
		)

		It("skal sende owner, sidestørrelse og serverens cursor", func() {
			org.repos = repoNames(150)

			_, err := f.GetRepos(ctx, "status-im")
			Expect(err).NotTo(HaveOccurred())

			reqs := server.Requests()
			Expect(reqs).To(HaveLen(2))
			Expect(reqs[0].Variables["owner"]).To(Equal("status-im"))
			Expect(reqs[0].Variables["pageSize"]).To(BeNumerically("==", 100))
			Expect(reqs[0].Variables["cursor"]).To(BeNil())
			Expect(reqs[1].Variables["cursor"]).To(Equal("c1"))
		})

		It("skal feile når eieren ikke finnes", func() {
			server.Close()
			server = testutils.NewFakeGraphQL(func(testutils.GraphQLRequest) (any, error) {
				return map[string]any{"repositoryOwner": nil}, nil
			})
			f = fetcher.NewIssueFetcher(server.Client())

			repos, err := f.GetRepos(ctx, "status-imm")
			Expect(err).To(MatchError(fetcher.ErrNotFound))
			Expect(err).To(MatchError(ContainSubstring(`"status-imm"`)))
			Expect(repos).To(BeNil())
		})

		It("skal returnere feil ved HTTP 401", func() {
			server.Close()
			server = testutils.NewFakeGraphQL(func(testutils.GraphQLRequest) (any, error) {
				return nil, testutils.StatusError{Code: 401, Body: `{"message":"Bad credentials"}`}
			})
			f = fetcher.NewIssueFetcher(server.Client())

			repos, err := f.GetRepos(ctx, "status-im")
			Expect(err).To(HaveOccurred())
			Expect(repos).To(BeNil())
		})
	})

	Describe("GetIssues", func() {
		It("skal konvertere issue-feltene", func() {
			org.issues["status-web"] = []map[string]any{
				issueJSON("I1", 5, false, ""),
				issueJSON("I2", 6, true, "jakubgs"),
			}

			issues, err := f.GetIssues(ctx, "status-im", "status-web")
			Expect(err).NotTo(HaveOccurred())
			Expect(issues).To(HaveLen(2))

			Expect(issues[0].ID).To(Equal("I1"))
			Expect(issues[0].Number).To(Equal(5))
			Expect(issues[0].Closed).To(BeFalse())
			Expect(issues[0].ClosedAt).To(BeNil())
			Expect(issues[0].Assignees).To(BeEmpty())
			Expect(issues[0].CreatedAt).To(Equal(time.Date(2022, 3, 1, 10, 0, 0, 0, time.UTC)))

			Expect(issues[1].Closed).To(BeTrue())
			Expect(*issues[1].ClosedAt).To(Equal(time.Date(2022, 3, 2, 10, 0, 0, 0, time.UTC)))
			Expect(issues[1].Assignees).To(Equal([]string{"jakubgs"}))
		})

		It("skal be om eldste først og maks én assignee", func() {
			_, err := f.GetIssues(ctx, "status-im", "status-web")
			Expect(err).NotTo(HaveOccurred())

			q := server.Requests()[0].Query
			Expect(q).To(ContainSubstring("orderBy: {field: CREATED_AT, direction: ASC}"))
			Expect(q).To(ContainSubstring("assignees(first: 1)"))
		})

		It("skal returnere tom liste for repo uten issues", func() {
			issues, err := f.GetIssues(ctx, "status-im", "tomt")
			Expect(err).NotTo(HaveOccurred())
			Expect(issues).NotTo(BeNil())
			Expect(issues).To(BeEmpty())
		})

		It("skal feile når repository er null", func() {
			server.Close()
			server = testutils.NewFakeGraphQL(func(testutils.GraphQLRequest) (any, error) {
				return map[string]any{"repository": nil}, nil
			})
			f = fetcher.NewIssueFetcher(server.Client())

			issues, err := f.GetIssues(ctx, "status-im", "borte")
			Expect(err).To(MatchError(fetcher.ErrNotFound))
			Expect(err).To(MatchError(ContainSubstring("status-im/borte")))
			Expect(issues).To(BeNil())
		})

		It("skal propagere feil for ukjent repo", func() {
			org.failRepos["finnes-ikke"] = true

			_, err := f.GetIssues(ctx, "status-im", "finnes-ikke")
			Expect(err).To(MatchError(ContainSubstring("Could not resolve")))
		})
	})

	Describe("GetAllReposAndIssues", func() {
		pattern := regexp.MustCompile(`^status-(react|desktop|web)$`)

		BeforeEach(func() {
			org.repos = []string{"status-react", "status-desktop", "other-repo"}
			org.issues["status-react"] = []map[string]any{issueJSON("I1", 5, false, "")}
		})

		It("skal filtrere repos på navn og beholde rekkefølgen", func() {
			repos, err := f.GetAllReposAndIssues(ctx, "status-im", pattern)
			Expect(err).NotTo(HaveOccurred())
			Expect(repos).To(HaveLen(2))
			Expect(repos[0].Name).To(Equal("status-react"))
			Expect(repos[1].Name).To(Equal("status-desktop"))
		})

		It("skal ta med repos uten issues", func() {
			repos, err := f.GetAllReposAndIssues(ctx, "status-im", pattern)
			Expect(err).NotTo(HaveOccurred())
			Expect(repos[0].Issues).To(HaveLen(1))
			Expect(repos[1].Issues).NotTo(BeNil())
			Expect(repos[1].Issues).To(BeEmpty())
		})

		It("skal hente issues for hvert repo uten filter", func() {
			repos, err := f.GetAllReposAndIssues(ctx, "status-im", nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(repos).To(HaveLen(3))
			// 1 repo-side + 3 issue-sider
			Expect(server.Requests()).To(HaveLen(4))
		})

		It("skal gi samme resultat to ganger", func() {
			first, err := f.GetAllReposAndIssues(ctx, "status-im", pattern)
			Expect(err).NotTo(HaveOccurred())
			second, err := f.GetAllReposAndIssues(ctx, "status-im", pattern)
			Expect(err).NotTo(HaveOccurred())
			Expect(second).To(Equal(first))
		})

		It("skal feile helt hvis ett repo feiler", func() {
			org.failRepos["status-desktop"] = true

			repos, err := f.GetAllReposAndIssues(ctx, "status-im", pattern)
			Expect(err).To(MatchError(ContainSubstring("status-im/status-desktop")))
			Expect(repos).To(BeNil())
		})

		It("skal feile i stedet for å gi tom liste for ukjent organisasjon", func() {
			server.Close()
			server = testutils.NewFakeGraphQL(func(testutils.GraphQLRequest) (any, error) {
				return map[string]any{"repositoryOwner": nil}, nil
			})
			f = fetcher.NewIssueFetcher(server.Client())

			repos, err := f.GetAllReposAndIssues(ctx, "status-imm", pattern)
			Expect(err).To(MatchError(fetcher.ErrNotFound))
			Expect(err).To(MatchError(ContainSubstring("kunne ikke hente repos for status-imm")))
			Expect(repos).To(BeNil())
		})

		It("skal feile hvis repo-listingen feiler", func() {
			server.Close()
			server = testutils.NewFakeGraphQL(func(testutils.GraphQLRequest) (any, error) {
				return nil, errors.New("Could not resolve to a RepositoryOwner")
			})
			f = fetcher.NewIssueFetcher(server.Client())

			_, err := f.GetAllReposAndIssues(ctx, "finnes-ikke", pattern)
			Expect(err).To(MatchError(ContainSubstring("kunne ikke hente repos")))
		})
	})
})

var _ = Describe("FilterRepos", func() {
	repos := []models.Repository{
		{Owner: "status-im", Name: "status-react"},
		{Owner: "status-im", Name: "status-desktop"},
		{Owner: "status-im", Name: "other-repo"},
	}

	It("skal beholde alle uten mønster", func() {
		Expect(fetcher.FilterRepos(repos, nil)).To(Equal(repos))
	})

	It("skal beholde kun treff i opprinnelig rekkefølge", func() {
		got := fetcher.FilterRepos(repos, regexp.MustCompile(`^status-(react|desktop|web)$`))
		Expect(got).To(Equal(repos[:2]))
	})
})
