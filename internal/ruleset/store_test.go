package ruleset

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devproxy/rewriteproxy/pkg/rule"
)

func TestStoreGetMissingClientReturnsEmpty(t *testing.T) {
	s := New()
	assert.Empty(t, s.Get("unknown"))
}

func TestStorePutGetRoundTrip(t *testing.T) {
	s := New()
	rules := rule.RuleList{{Path: "/api/test"}}
	require.NoError(t, s.Put("client-a", rules))

	got := s.Get("client-a")
	require.Len(t, got, 1)
	assert.Equal(t, "/api/test", got[0].Path)
}

func TestStorePutRejectsInvalidListWholesale(t *testing.T) {
	s := New()
	require.NoError(t, s.Put("client-a", rule.RuleList{{Path: "/ok"}}))

	bad := rule.RuleList{{Path: "(unterminated", PathType: rule.PathTypeRegexp}}
	err := s.Put("client-a", bad)
	require.Error(t, err)

	// The store must still hold the previous, valid list.
	got := s.Get("client-a")
	require.Len(t, got, 1)
	assert.Equal(t, "/ok", got[0].Path)
}

func TestStorePutMutationAfterPutDoesNotAffectStore(t *testing.T) {
	s := New()
	rules := rule.RuleList{{Path: "/a"}}
	require.NoError(t, s.Put("client-a", rules))

	rules[0].Path = "/mutated"

	got := s.Get("client-a")
	assert.Equal(t, "/a", got[0].Path)
}

func TestStoreConcurrentAccess(t *testing.T) {
	s := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_ = s.Put("client", rule.RuleList{{Path: "/x"}})
		}(i)
		go func() {
			defer wg.Done()
			_ = s.Get("client")
		}()
	}
	wg.Wait()
}
