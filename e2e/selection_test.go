//go:build e2e && unix

package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestItemSelection(t *testing.T) {
	t.Parallel()
	tf := startSeeded(t, "Centrifuge", "Freezer A", "Pipette")

	tf.Select()
	require.True(t, tf.SeePlain("1 of 3 devices selected"), "Selection should show in the header")

	tf.Down()
	tf.Select()
	require.True(t, tf.SeePlain("2 of 3 devices selected"), "Second selection should show in the header")

	tf.SendKeys("a")
	require.True(t, tf.SeePlain("3 of 3 devices selected"), "a should select every device")
}

func TestDeleteThenUndo(t *testing.T) {
	t.Parallel()
	tf := startSeeded(t, "Centrifuge", "Freezer A", "Pipette")

	tf.Select()
	tf.Down()
	tf.Select()
	require.True(t, tf.SeePlain("2 of 3 devices selected"))

	tf.SendKeys(KeyDelete)
	require.True(t, tf.SeePlain("Delete the 2 selected"), "Delete should ask for confirmation")

	tf.SendKeys("y")
	require.True(t, tf.SeePlain("Deleted 2 devices"), "Delete should report success")
	require.True(t, tf.SeePlain("Undo Delete 2 devices"), "Undo hint should be offered")

	tf.Undo()
	require.True(t, tf.SeePlain("Undid Delete 2 devices"), "Undo should report success")
}

func TestBatchMenuOpensAndCancels(t *testing.T) {
	t.Parallel()
	tf := startSeeded(t, "Centrifuge")

	tf.Select()
	tf.Menu()
	require.True(t, tf.SeePlain("Batch actions"), "Menu should open")
	require.True(t, tf.SeePlain("Add tags"), "Menu should list the catalog")

	before := tf.Snapshot()
	tf.SendKeys(KeyEsc)
	require.True(t, tf.WaitFor(func(s string) bool { return s != before }, time.Second), "Escape should redraw without the menu")
}

func TestMenuWithoutSelectionWarns(t *testing.T) {
	t.Parallel()
	tf := startSeeded(t, "Centrifuge")

	tf.Menu()
	require.True(t, tf.SeePlain("Select at least one device first"))
}
