package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/svcinit/depengine/internal/diagnostics"
)

// setup builds a fresh registry and resolver over it, backed by a
// Recorder so tests can assert on which warnings fired.
func setup() (*Registry, *Resolver, *diagnostics.Recorder) {
	registry := NewRegistry()
	rec := diagnostics.NewRecorder()
	resolver := NewResolver(registry, rec)
	return registry, resolver, rec
}

func TestVirtualSubstitution(t *testing.T) {
	registry, resolver, rec := setup()
	require.NoError(t, registry.Add("dhcpcd"))
	require.NoError(t, registry.Add("sshd"))
	require.NoError(t, registry.AddDependency("dhcpcd", "net", Provide))
	require.NoError(t, registry.AddDependency("sshd", "net", Need))

	require.NoError(t, resolver.ResolveAll())

	sshd, _ := registry.Get("sshd")
	require.Equal(t, []string{"dhcpcd"}, sshd.Relations(Need))

	dhcpcd, _ := registry.Get("dhcpcd")
	require.Equal(t, []string{"sshd"}, dhcpcd.Relations(NeedMe))

	provider, ok := resolver.virtuals.Resolve("net")
	require.True(t, ok)
	require.Equal(t, "dhcpcd", provider.Name)
	require.Empty(t, rec.Warns)
}

func TestBrokenNeed(t *testing.T) {
	registry, resolver, rec := setup()
	require.NoError(t, registry.Add("sshd"))
	require.NoError(t, registry.AddDependency("sshd", "missing", Need))

	require.NoError(t, resolver.ResolveAll())

	sshd, _ := registry.Get("sshd")
	require.Empty(t, sshd.Relations(Need))
	require.Equal(t, []string{"missing"}, sshd.Relations(Broken))
	require.Len(t, rec.Warns, 1)
	require.Contains(t, rec.Warns[0], "missing")
	require.Contains(t, rec.Warns[0], "sshd")
}

func TestBeforeAbsorbedByNeed(t *testing.T) {
	registry, resolver, _ := setup()
	require.NoError(t, registry.Add("a"))
	require.NoError(t, registry.Add("b"))
	require.NoError(t, registry.AddDependency("a", "b", Need))
	require.NoError(t, registry.AddDependency("a", "b", Before))

	require.NoError(t, resolver.ResolveAll())

	a, _ := registry.Get("a")
	require.Equal(t, []string{"b"}, a.Relations(Need))
	require.Empty(t, a.Relations(Before))

	b, _ := registry.Get("b")
	require.Equal(t, []string{"a"}, b.Relations(NeedMe))
	require.Empty(t, b.Relations(After))
}

func TestSymmetricCycle(t *testing.T) {
	registry, resolver, rec := setup()
	require.NoError(t, registry.Add("a"))
	require.NoError(t, registry.Add("b"))
	require.NoError(t, registry.AddDependency("a", "b", Need))
	require.NoError(t, registry.AddDependency("b", "a", Need))

	require.NoError(t, resolver.ResolveAll())

	a, _ := registry.Get("a")
	b, _ := registry.Get("b")
	aHasB := contains(a.Relations(Need), "b")
	bHasA := contains(b.Relations(Need), "a")
	require.False(t, aHasB && bHasA, "at most one direction of the cycle may survive")
	require.True(t, aHasB || bHasA, "exactly one direction of the cycle should survive")
	require.Len(t, rec.Warns, 1)
}

func TestSelfEdge(t *testing.T) {
	registry, resolver, rec := setup()
	require.NoError(t, registry.Add("a"))
	require.NoError(t, registry.AddDependency("a", "a", Need))

	require.NoError(t, resolver.ResolveAll())

	a, _ := registry.Get("a")
	require.Empty(t, a.Relations(Need))
	require.Empty(t, a.Relations(NeedMe))
	require.Empty(t, a.Relations(Before))
	require.Empty(t, a.Relations(After))
	require.Len(t, rec.Warns, 1)
	require.Contains(t, rec.Warns[0], "a")
}

func TestSelfEdgeOrderingHintsAreSilent(t *testing.T) {
	registry, resolver, rec := setup()
	require.NoError(t, registry.Add("a"))
	require.NoError(t, registry.AddDependency("a", "a", Before))

	require.NoError(t, resolver.ResolveAll())

	a, _ := registry.Get("a")
	require.Empty(t, a.Relations(Before))
	require.Empty(t, rec.Warns, "self-BEFORE/AFTER is removed silently, not warned about")
}

func TestTransitiveBeforeConflict(t *testing.T) {
	registry, resolver, rec := setup()
	require.NoError(t, registry.Add("a"))
	require.NoError(t, registry.Add("b"))
	require.NoError(t, registry.Add("c"))
	require.NoError(t, registry.AddDependency("a", "b", Before))
	require.NoError(t, registry.AddDependency("a", "c", Need))
	require.NoError(t, registry.AddDependency("c", "b", Use))

	require.NoError(t, resolver.ResolveAll())

	a, _ := registry.Get("a")
	require.False(t, contains(a.Relations(Before), "b"))
	require.Len(t, rec.Warns, 1)
}

func TestDuplicateVirtualProviderWarns(t *testing.T) {
	registry, resolver, rec := setup()
	require.NoError(t, registry.Add("dhcpcd"))
	require.NoError(t, registry.Add("wicd"))
	require.NoError(t, registry.AddDependency("dhcpcd", "net", Provide))
	require.NoError(t, registry.AddDependency("wicd", "net", Provide))

	require.NoError(t, resolver.ResolveAll())

	provider, ok := resolver.virtuals.Resolve("net")
	require.True(t, ok)
	require.Equal(t, "dhcpcd", provider.Name, "first provider wins")
	require.Len(t, rec.Warns, 1)
}

func TestVirtualCollidesWithServiceName(t *testing.T) {
	registry, resolver, rec := setup()
	require.NoError(t, registry.Add("net"))
	require.NoError(t, registry.Add("dhcpcd"))
	require.NoError(t, registry.AddDependency("dhcpcd", "net", Provide))

	require.NoError(t, resolver.ResolveAll())

	// The real "net" service wins name lookups; the virtual is still
	// recorded for later substitution but is shadowed here.
	real, ok := registry.Get("net")
	require.True(t, ok)
	require.Equal(t, "net", real.Name)
	require.NotEmpty(t, rec.Warns)
}

func contains(xs []string, x string) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}
