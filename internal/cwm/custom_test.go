package cwm_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinytelemetry/lotus-setup/internal/cwm"
	"github.com/tinytelemetry/lotus-setup/internal/cwm/cwmtest"
)

func TestCustomWidget_Contract(t *testing.T) {
	cw := cwm.NewCustomWidget("group", cwmtest.NewWidget("a"), cwmtest.NewWidget("b"))
	cwmtest.CustomWidgetContract(t, cw)
}

func TestCustomWidget_InitAndStoreRunInDeclaredOrder(t *testing.T) {
	var calls []string
	a, b, c := cwmtest.NewWidget("a"), cwmtest.NewWidget("b"), cwmtest.NewWidget("c")
	for _, w := range []*cwmtest.Widget{a, b, c} {
		w.Log = &calls
	}
	cw := cwm.NewCustomWidget("group", a, b, c)

	require.NoError(t, cw.Init())
	require.NoError(t, cw.Store())

	assert.Equal(t, []string{
		"a.init", "b.init", "c.init",
		"a.store", "b.store", "c.store",
	}, calls)
}

func TestCustomWidget_InitPropagatesChildErrorUnchanged(t *testing.T) {
	boom := errors.New("boom")
	a, b, c := cwmtest.NewWidget("a"), cwmtest.NewWidget("b"), cwmtest.NewWidget("c")
	b.InitErr = boom
	cw := cwm.NewCustomWidget("group", a, b, c)

	err := cw.Init()
	assert.Same(t, boom, err)
	assert.Equal(t, 1, a.InitCalls)
	assert.Equal(t, 0, c.InitCalls)
}

func TestCustomWidget_ValidateDoesNotShortCircuit(t *testing.T) {
	invalid := cwmtest.NewWidget("invalid")
	invalid.Valid = false
	valid := cwmtest.NewWidget("valid")
	cw := cwm.NewCustomWidget("group", invalid, valid)

	assert.False(t, cw.Validate())
	assert.Equal(t, 1, invalid.ValidateCalls)
	assert.Equal(t, 1, valid.ValidateCalls, "second child must be validated after the first failed")
}

func TestCustomWidget_HelpConcatenatesInOrder(t *testing.T) {
	a, b := cwmtest.NewWidget("a"), cwmtest.NewWidget("b")
	a.HelpText = "first. "
	b.HelpText = "second."
	cw := cwm.NewCustomWidget("group", a, b)

	assert.Equal(t, "first. second.", cw.Help())
}

func TestCustomWidget_HandleRoutesTargetedEvents(t *testing.T) {
	a, b := cwmtest.NewWidget("a"), cwmtest.NewWidget("b")
	b.Reply = "replacement"
	cw := cwm.NewCustomWidget("group", a, b)
	require.NoError(t, cw.Init())

	reply, err := cw.Handle(cwmtest.Event{Target: "b", Value: "x"})
	require.NoError(t, err)
	assert.Equal(t, "replacement", reply)
	assert.Empty(t, a.Events)
	require.Len(t, b.Events, 1)
}

func TestCustomWidget_HandleRoutesIntoNestedContainers(t *testing.T) {
	leaf := cwmtest.NewWidget("leaf")
	leaf.Reply = "from leaf"
	inner := cwm.NewCustomWidget("inner", cwmtest.NewWidget("other"), leaf)
	cw := cwm.NewCustomWidget("outer", cwmtest.NewWidget("a"), inner)

	reply, err := cw.Handle(cwmtest.Event{Target: "leaf"})
	require.NoError(t, err)
	assert.Equal(t, "from leaf", reply)
	assert.Len(t, leaf.Events, 1)
}

func TestCustomWidget_HandleUntargetedGoesToFocusedChild(t *testing.T) {
	a, b := cwmtest.NewWidget("a"), cwmtest.NewWidget("b")
	cw := cwm.NewCustomWidget("group", a, b)
	cw.SetDefaultFocus("b")
	cw.Focus()

	_, err := cw.Handle("key")
	require.NoError(t, err)
	assert.Empty(t, a.Events)
	assert.Equal(t, []cwm.Event{"key"}, b.Events)
	assert.True(t, b.Focused())
}

func TestCustomWidget_HandleWithoutFocusDropsEvent(t *testing.T) {
	cw := cwm.NewCustomWidget("group")
	reply, err := cw.Handle("key")
	require.NoError(t, err)
	assert.Nil(t, reply)
}

func TestCustomWidget_HandlePropagatesChildError(t *testing.T) {
	boom := errors.New("boom")
	a := cwmtest.NewWidget("a")
	a.HandleErr = boom
	cw := cwm.NewCustomWidget("group", a)

	_, err := cw.Handle(cwmtest.Event{Target: "a"})
	assert.Same(t, boom, err)
}

func TestCustomWidget_FocusCycling(t *testing.T) {
	a, b, c := cwmtest.NewWidget("a"), cwmtest.NewWidget("b"), cwmtest.NewWidget("c")
	inner := cwm.NewCustomWidget("inner", b, c)
	cw := cwm.NewCustomWidget("outer", a, inner)
	cw.Focus()
	require.True(t, a.Focused())

	require.True(t, cw.FocusNext())
	assert.False(t, a.Focused())
	assert.True(t, b.Focused())

	require.True(t, cw.FocusNext())
	assert.True(t, c.Focused())
	assert.False(t, b.Focused())

	assert.False(t, cw.FocusNext(), "focus should not leave the outer container")

	require.True(t, cw.FocusPrev())
	assert.True(t, b.Focused())
	require.True(t, cw.FocusPrev())
	assert.True(t, a.Focused())
	assert.False(t, b.Focused())
}

func TestCustomWidget_DefaultFocusNested(t *testing.T) {
	a, b, c := cwmtest.NewWidget("a"), cwmtest.NewWidget("b"), cwmtest.NewWidget("c")
	cw := cwm.NewCustomWidget("outer", a, cwm.NewCustomWidget("inner", b, c))
	cw.SetDefaultFocus("c")
	cw.Focus()

	assert.False(t, a.Focused())
	assert.False(t, b.Focused())
	assert.True(t, c.Focused())
}

func TestFind(t *testing.T) {
	leaf := cwmtest.NewWidget("leaf")
	root := cwm.NewCustomWidget("root", cwm.NewCustomWidget("mid", leaf))

	assert.Same(t, leaf, cwm.Find(root, "leaf"))
	assert.Nil(t, cwm.Find(root, "missing"))
	assert.Nil(t, cwm.Find(nil, "leaf"))
}
