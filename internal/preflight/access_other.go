//go:build !unix

package preflight

import "os"

func checkAccess(path string) error {
	probe, err := os.CreateTemp(path, ".patreonfetch-access-*")
	if err != nil {
		return err
	}
	name := probe.Name()
	_ = probe.Close()
	return os.Remove(name)
}
