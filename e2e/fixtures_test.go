//go:build e2e && unix

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// CreateTestWorkspace creates an isolated home directory for the app
func (tf *TUITestFramework) CreateTestWorkspace() (string, error) {
	tmpDir := tf.t.TempDir()
	tf.workspace = tmpDir
	return tmpDir, nil
}

// WriteSeed writes a seed file listing one device per name. Device ids are
// d1, d2, ... in order.
func (tf *TUITestFramework) WriteSeed(names ...string) (string, error) {
	if tf.workspace == "" {
		return "", fmt.Errorf("workspace not created")
	}

	var b strings.Builder
	b.WriteString("items:\n")
	for i, name := range names {
		fmt.Fprintf(&b, "  - id: d%d\n    name: %s\n    category: bench\n", i+1, name)
	}

	path := filepath.Join(tf.workspace, "seed.yaml")
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return "", err
	}
	tf.seedPath = path
	return path, nil
}
