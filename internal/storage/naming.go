package storage

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"
)

// Namer builds stored file names of the form <field>-<unixMillis>-<rand><ext>.
type Namer struct {
	Now  func() time.Time
	Rand func() int64
}

func NewNamer() *Namer {
	return &Namer{
		Now:  time.Now,
		Rand: func() int64 { return rand.Int64N(1_000_000_001) },
	}
}

func (n *Namer) Name(field, ext string) string {
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return fmt.Sprintf("%s-%d-%d%s", field, n.Now().UnixMilli(), n.Rand(), ext)
}
