//go:build !unix

package supervisor

import "testing"

func assertProcessGone(t *testing.T, pid int) {
	t.Helper()
	if pid == 0 {
		t.Fatal("outcome has no pid")
	}
}
