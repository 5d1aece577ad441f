package cwm_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinytelemetry/lotus-setup/internal/cwm"
	"github.com/tinytelemetry/lotus-setup/internal/cwm/cwmtest"
)

func TestPage_Contract(t *testing.T) {
	cwmtest.CustomWidgetContract(t, cwmtest.NewPage(0))
}

func TestPage_Identity(t *testing.T) {
	pg := cwmtest.NewPage(0)
	assert.Equal(t, "page0", pg.ID())
	assert.Equal(t, "Page 0", pg.Label())
	assert.Same(t, pg.Widget, pg.Contents())

	pg.SetLabel("Page 0 (!)")
	assert.Equal(t, "Page 0 (!)", pg.Label())
	assert.Equal(t, "page0", pg.ID())
}

func TestPage_InitStates(t *testing.T) {
	pg := cwmtest.NewPage(1)
	assert.False(t, pg.Initialized())

	require.NoError(t, pg.Init())
	assert.True(t, pg.Initialized())
	assert.True(t, pg.Widget.Focused(), "page should focus its contents")

	require.NoError(t, pg.Init())
	assert.True(t, pg.Initialized())
	assert.Equal(t, 2, pg.Widget.InitCalls)
}

func TestPage_InitFailureKeepsPageUninitialized(t *testing.T) {
	pg := cwmtest.NewPage(1)
	boom := errors.New("boom")
	pg.Widget.InitErr = boom

	assert.Same(t, boom, pg.Init())
	assert.False(t, pg.Initialized())
}

func TestPage_ForwardsLifecycleIntoContents(t *testing.T) {
	valid, invalid := cwmtest.NewWidget("valid"), cwmtest.NewWidget("invalid")
	invalid.Valid = false
	valid.HelpText = "Valid field. "
	invalid.HelpText = "Invalid field."
	valid.Reply = "changed"

	pg := cwm.NewPage("p", "P", cwm.NewCustomWidget("contents", valid, invalid))
	require.NoError(t, pg.Init())

	assert.False(t, pg.Validate())
	assert.Equal(t, 1, valid.ValidateCalls)
	assert.Equal(t, 1, invalid.ValidateCalls)

	assert.Equal(t, "Valid field. Invalid field.", pg.Help())

	ev, err := pg.Handle(cwmtest.Event{Target: "valid"})
	require.NoError(t, err)
	assert.Equal(t, "changed", ev)

	require.NoError(t, pg.Store())
	assert.Equal(t, 1, valid.StoreCalls)
	assert.Equal(t, 1, invalid.StoreCalls)
}

func TestPage_DefaultFocus(t *testing.T) {
	a, b := cwmtest.NewWidget("a"), cwmtest.NewWidget("b")
	contents := cwm.NewCustomWidget("contents", a, b)
	contents.SetDefaultFocus("b")
	pg := cwm.NewPage("p", "P", contents)

	require.NoError(t, pg.Init())
	assert.False(t, a.Focused())
	assert.True(t, b.Focused())

	assert.False(t, pg.FocusNext())
	pg.FocusFirst()
	assert.True(t, a.Focused())
	pg.FocusLast()
	assert.True(t, b.Focused())
	assert.False(t, a.Focused())
}

func TestPage_WithoutContents(t *testing.T) {
	pg := cwm.NewPage("empty", "Empty", nil)
	require.NoError(t, pg.Init())
	assert.True(t, pg.Initialized())
	assert.True(t, pg.Validate())
	assert.Empty(t, pg.Help())
	ev, err := pg.Handle("key")
	require.NoError(t, err)
	assert.Nil(t, ev)
	assert.Empty(t, pg.View(80, 24))
}

func TestPage_StoreOnLeave(t *testing.T) {
	assert.True(t, cwm.NewPage("a", "A", nil).StoreOnLeave())
	assert.False(t, cwm.NewPage("b", "B", nil, cwm.WithoutStoreOnLeave()).StoreOnLeave())
}
