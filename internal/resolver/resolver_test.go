package resolver_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/bingo-gateway/internal/resolver"
)

const origin = "http://localhost:8000"

var _ = Describe("Resolver", func() {
	Describe("ResolveRewrites", func() {
		It("should forward api and csrf cookie paths to the origin", func() {
			rules, err := resolver.ResolveRewrites(origin)
			Expect(err).NotTo(HaveOccurred())
			Expect(rules).To(Equal([]resolver.RewriteRule{
				{Source: "/api/:path*", Destination: "http://localhost:8000/api/:path*"},
				{Source: "/sanctum/csrf-cookie", Destination: "http://localhost:8000/sanctum/csrf-cookie"},
			}))
		})

		It("should concatenate the origin verbatim", func() {
			for _, o := range []string{"https://api.example.com", "http://127.0.0.1:9000", "http://[::1]:8000"} {
				rules, err := resolver.ResolveRewrites(o)
				Expect(err).NotTo(HaveOccurred())
				Expect(rules).To(HaveLen(2))
				Expect(rules[0].Destination).To(Equal(o + "/api/:path*"))
				Expect(rules[1].Destination).To(Equal(o + "/sanctum/csrf-cookie"))
			}
		})

		It("should fail on an invalid origin without partial output", func() {
			rules, err := resolver.ResolveRewrites("not a url")
			Expect(err).To(HaveOccurred())
			Expect(rules).To(BeNil())

			var originErr *resolver.InvalidOriginError
			Expect(errors.As(err, &originErr)).To(BeTrue())
			Expect(originErr.Origin).To(Equal("not a url"))
		})
	})

	Describe("ResolveHeaders", func() {
		Context("when enabled", func() {
			It("should return the four CORS headers in order", func() {
				entries, err := resolver.ResolveHeaders(origin, true)
				Expect(err).NotTo(HaveOccurred())
				Expect(entries).To(Equal([]resolver.HeaderEntry{
					{Key: "Access-Control-Allow-Credentials", Value: "true"},
					{Key: "Access-Control-Allow-Origin", Value: "http://localhost:8000"},
					{Key: "Access-Control-Allow-Methods", Value: "GET,DELETE,PATCH,POST,PUT"},
					{Key: "Access-Control-Allow-Headers", Value: "X-CSRF-Token, X-Requested-With, Accept, Accept-Version, Content-Length, Content-MD5, Content-Type, Date, X-Api-Version"},
				}))
			})

			It("should yield structurally equal results on re-resolution", func() {
				first, _ := resolver.ResolveHeaders(origin, true)
				second, _ := resolver.ResolveHeaders(origin, true)
				Expect(first).To(Equal(second))
			})

			It("should not contain duplicate keys", func() {
				entries, _ := resolver.ResolveHeaders(origin, true)
				seen := map[string]bool{}
				for _, e := range entries {
					Expect(seen).NotTo(HaveKey(e.Key))
					seen[e.Key] = true
				}
			})

			It("should fail on an invalid origin", func() {
				entries, err := resolver.ResolveHeaders("", true)
				Expect(err).To(MatchError(resolver.ErrInvalidOrigin))
				Expect(entries).To(BeNil())
			})
		})

		Context("when disabled", func() {
			It("should return no headers for any origin", func() {
				for _, o := range []string{origin, "", "not a url"} {
					entries, err := resolver.ResolveHeaders(o, false)
					Expect(err).NotTo(HaveOccurred())
					Expect(entries).To(BeEmpty())
				}
			})
		})
	})

	Describe("ResolveExternals", func() {
		It("should append canvas and jsdom to an empty list", func() {
			Expect(resolver.ResolveExternals([]string{})).To(Equal([]string{"canvas", "jsdom"}))
			Expect(resolver.ResolveExternals(nil)).To(Equal([]string{"canvas", "jsdom"}))
		})

		It("should keep existing entries first", func() {
			Expect(resolver.ResolveExternals([]string{"foo"})).To(Equal([]string{"foo", "canvas", "jsdom"}))
		})

		It("should not deduplicate", func() {
			Expect(resolver.ResolveExternals([]string{"canvas"})).To(Equal([]string{"canvas", "canvas", "jsdom"}))
		})

		It("should not mutate the input", func() {
			existing := make([]string, 1, 8)
			existing[0] = "foo"

			out := resolver.ResolveExternals(existing)
			out[0] = "bar"

			Expect(existing).To(Equal([]string{"foo"}))
			Expect(existing[:2][1]).To(BeEmpty())
		})
	})

	Describe("Resolve", func() {
		It("should group CORS headers under the all-paths selector", func() {
			res, err := resolver.Resolve(resolver.Options{Origin: origin, CORSEnabled: true, Externals: []string{"foo"}})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Origin).To(Equal(origin))
			Expect(res.Rewrites).To(HaveLen(2))
			Expect(res.Headers).To(HaveLen(1))
			Expect(res.Headers[0].Source).To(Equal(resolver.AllPaths))
			Expect(res.Headers[0].Headers).To(HaveLen(4))
			Expect(res.Externals).To(Equal([]string{"foo", "canvas", "jsdom"}))
		})

		It("should produce no header rules when CORS is disabled", func() {
			res, err := resolver.Resolve(resolver.Options{Origin: origin})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Headers).To(BeEmpty())
		})

		It("should return nothing for an invalid origin", func() {
			res, err := resolver.Resolve(resolver.Options{Origin: "localhost:8000", CORSEnabled: true})
			Expect(err).To(MatchError(resolver.ErrInvalidOrigin))
			Expect(res).To(BeNil())
		})
	})
})
