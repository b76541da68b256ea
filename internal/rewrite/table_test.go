package rewrite_test

import (
	"net/url"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/bingo-gateway/internal/resolver"
	"github.com/angeloszaimis/bingo-gateway/internal/rewrite"
)

var _ = Describe("Table", func() {
	var table *rewrite.Table

	BeforeEach(func() {
		rules, err := resolver.ResolveRewrites("http://localhost:8000")
		Expect(err).NotTo(HaveOccurred())

		table, err = rewrite.New(rules)
		Expect(err).NotTo(HaveOccurred())
	})

	lookup := func(raw string) (string, bool) {
		u, err := url.Parse(raw)
		Expect(err).NotTo(HaveOccurred())
		m, ok, err := table.Lookup(u)
		Expect(err).NotTo(HaveOccurred())
		if !ok {
			return "", false
		}
		return m.Destination.String(), true
	}

	DescribeTable("Lookup",
		func(path string, matched bool, destination string) {
			dest, ok := lookup(path)
			Expect(ok).To(Equal(matched))
			Expect(dest).To(Equal(destination))
		},
		Entry("api root", "/api", true, "http://localhost:8000/api"),
		Entry("nested api path", "/api/users/42", true, "http://localhost:8000/api/users/42"),
		Entry("api with query", "/api/users?page=2", true, "http://localhost:8000/api/users?page=2"),
		Entry("csrf cookie", "/sanctum/csrf-cookie", true, "http://localhost:8000/sanctum/csrf-cookie"),
		Entry("csrf cookie subpath", "/sanctum/csrf-cookie/x", false, ""),
		Entry("frontend page", "/dashboard", false, ""),
		Entry("encoded question mark", "/api/files/a%3Fb", true, "http://localhost:8000/api/files/a%3Fb"),
		Entry("encoded hash", "/api/tags/c%23", true, "http://localhost:8000/api/tags/c%23"),
		Entry("encoded slash", "/api/files/a%2Fb", true, "http://localhost:8000/api/files/a%2Fb"),
		Entry("encoded segment and query", "/api/files/a%3Fb?page=2", true, "http://localhost:8000/api/files/a%3Fb?page=2"),
	)

	It("should keep the decoded destination path consistent with the escaped one", func() {
		u, err := url.Parse("/api/files/a%2Fb")
		Expect(err).NotTo(HaveOccurred())

		m, ok, err := table.Lookup(u)
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeTrue())
		Expect(m.Destination.Path).To(Equal("/api/files/a/b"))
		Expect(m.Destination.EscapedPath()).To(Equal("/api/files/a%2Fb"))
	})

	It("should report the matching rule", func() {
		m, ok, err := table.Lookup(&url.URL{Path: "/sanctum/csrf-cookie"})
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeTrue())
		Expect(m.Rule.Source).To(Equal("/sanctum/csrf-cookie"))
	})

	It("should preserve rule order", func() {
		rules := table.Rules()
		Expect(rules).To(HaveLen(2))
		Expect(rules[0].Source).To(Equal("/api/:path*"))
		Expect(rules[1].Source).To(Equal("/sanctum/csrf-cookie"))
	})

	It("should let the first matching rule win", func() {
		t, err := rewrite.New([]resolver.RewriteRule{
			{Source: "/api/:path*", Destination: "http://a.example.com/:path*"},
			{Source: "/api/users", Destination: "http://b.example.com/users"},
		})
		Expect(err).NotTo(HaveOccurred())

		m, ok, err := t.Lookup(&url.URL{Path: "/api/users"})
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeTrue())
		Expect(m.Destination.Host).To(Equal("a.example.com"))
	})

	Describe("New", func() {
		It("should reject an invalid source", func() {
			_, err := rewrite.New([]resolver.RewriteRule{{Source: "api", Destination: "http://x"}})
			Expect(err).To(HaveOccurred())
		})

		It("should reject a relative destination", func() {
			_, err := rewrite.New([]resolver.RewriteRule{{Source: "/api", Destination: "/api"}})
			Expect(err).To(HaveOccurred())
		})
	})
})
