package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mkealoha/ticketwatch/internal/domain/availability"
)

func directClassify(body string) availability.Result {
	key := availability.Key{Date: "12/25/2025", Party: availability.Party{Adults: 2}}
	return Direct{}.Classify(body, key, "https://tickets.example.com/select?BundleID=101", testNow)
}

func TestDirectSoldOutMarkers(t *testing.T) {
	for _, body := range []string{
		"<html><body>There are no available times for this date.</body></html>",
		"<html><body>Please choose another date to continue.</body></html>",
		"<html><body>SOLDOUT!</body></html>",
	} {
		res := directClassify(body)
		assert.Equal(t, availability.StatusSoldOut, res.Status, "body %q", body)
	}
}

func TestDirectCheckoutMeansAvailable(t *testing.T) {
	res := directClassify("<html><body><h2>Order Summary</h2><button>Proceed to Checkout</button></body></html>")
	assert.Equal(t, availability.StatusAvailable, res.Status)
}

func TestDirectSoldOutWinsOverCheckout(t *testing.T) {
	res := directClassify("<html><body><h2>Order Summary</h2>Please choose another date</body></html>")
	assert.Equal(t, availability.StatusSoldOut, res.Status)
}

func TestDirectAmbiguousLayout(t *testing.T) {
	res := directClassify("<html><body>Maintenance in progress</body></html>")
	assert.Equal(t, availability.StatusUnknown, res.Status)
	assert.Contains(t, res.Message, "Ambiguous")
}

func TestNewVariantSelection(t *testing.T) {
	c, err := New("legacy")
	assert.NoError(t, err)
	assert.Equal(t, VariantLegacy, c.Variant())

	c, err = New("direct")
	assert.NoError(t, err)
	assert.Equal(t, VariantDirect, c.Variant())

	c, err = New("")
	assert.NoError(t, err)
	assert.Equal(t, VariantLegacy, c.Variant())

	_, err = New("carrier-pigeon")
	assert.Error(t, err)
}
