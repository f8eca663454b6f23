// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package puzzle

import (
	"bytes"
	"strings"
	"testing"

	"github.com/wraiser/poetry/packages"
)

func TestWriteDot(t *testing.T) {
	root := mkPkg("root 1.0.0", "a >=1.0")
	pool := []*packages.Package{
		mkPkg("a 1.0.0", "b >=1.0"),
		mkPkg("b 1.0.0"),
	}

	tx, err := solveFixture(root, pool, nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := WriteDot(&buf, tx); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	for _, want := range []string{"root@1.0.0", "a@1.0.0", "b@1.0.0", "->"} {
		if !strings.Contains(out, want) {
			t.Errorf("dot output missing %q:\n%s", want, out)
		}
	}
}
