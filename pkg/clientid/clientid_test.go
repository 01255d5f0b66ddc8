package clientid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractFindsClientIDCookieAmongOthers(t *testing.T) {
	id, ok := Extract("testkey=testvalue; __pmid=clientid")
	assert.True(t, ok)
	assert.Equal(t, "clientid", id)
}

func TestExtractBareClientIDCookie(t *testing.T) {
	id, ok := Extract("__pmid=clientid")
	assert.True(t, ok)
	assert.Equal(t, "clientid", id)
}

func TestExtractMissingCookieReturnsNotOK(t *testing.T) {
	_, ok := Extract("testkey=testvalue")
	assert.False(t, ok)
}

func TestExtractEmptyStringReturnsNotOK(t *testing.T) {
	_, ok := Extract("")
	assert.False(t, ok)
}

func TestExtractMalformedCookieHeaderReturnsNotOK(t *testing.T) {
	_, ok := Extract(";;;===")
	assert.False(t, ok)
}

func TestStripSelfRemovesOnlyTheClientIDCookie(t *testing.T) {
	assert.Equal(t, "testkey=testvalue", StripSelf("testkey=testvalue; __pmid=clientid"))
}

func TestStripSelfLeavesOtherCookiesUntouchedWhenAbsent(t *testing.T) {
	assert.Equal(t, "testkey=testvalue", StripSelf("testkey=testvalue"))
}
