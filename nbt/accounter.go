package nbt

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrFormat reports malformed binary input.
	ErrFormat = errors.New("nbt: malformed data")
	// ErrTooBig reports that a decode exceeded its byte quota.
	ErrTooBig = errors.New("nbt: tag too big")
	// ErrTooDeep reports that a decode exceeded its nesting limit.
	ErrTooDeep = errors.New("nbt: tag too deep")
)

const (
	DefaultQuota    = 2 * 1024 * 1024
	DefaultMaxDepth = 512
)

// Accounter tracks the approximate memory cost and nesting depth of a single
// decode. It is not safe for concurrent use.
type Accounter struct {
	quota    int64
	usage    int64
	maxDepth int
	depth    int
}

func NewAccounter(quota int64, maxDepth int) *Accounter {
	return &Accounter{quota: quota, maxDepth: maxDepth}
}

// UnlimitedAccounter has no byte quota and the default depth limit.
func UnlimitedAccounter() *Accounter {
	return NewAccounter(math.MaxInt64, DefaultMaxDepth)
}

// DefaultAccounter uses the network-safe quota of 2 MiB.
func DefaultAccounter() *Accounter {
	return NewAccounter(DefaultQuota, DefaultMaxDepth)
}

// AccountString charges the two byte length header plus the encoded length.
func (a *Accounter) AccountString(s string) error {
	return a.AccountBytes(2 + int64(modifiedUTF8Len(s)))
}

func (a *Accounter) AccountBytes(n int64) error {
	if n < 0 || a.usage > a.quota-n {
		return fmt.Errorf("%w: tried to read NBT tag that was too big; tried to allocate: %d + %d bytes where max allowed: %d", ErrTooBig, a.usage, n, a.quota)
	}
	a.usage += n
	return nil
}

// AccountItems charges perItem bytes for each of count items.
func (a *Accounter) AccountItems(perItem, count int64) error {
	if count < 0 {
		return fmt.Errorf("%w: negative item count %d", ErrFormat, count)
	}
	if perItem != 0 && count > math.MaxInt64/perItem {
		return fmt.Errorf("%w: tried to allocate %d items of %d bytes", ErrTooBig, count, perItem)
	}
	return a.AccountBytes(perItem * count)
}

func (a *Accounter) PushDepth() error {
	if a.depth >= a.maxDepth {
		return fmt.Errorf("%w: tried to read NBT tag with too high complexity, depth > %d", ErrTooDeep, a.maxDepth)
	}
	a.depth++
	return nil
}

func (a *Accounter) PopDepth() error {
	if a.depth <= 0 {
		return errors.New("nbt: popped depth at top level")
	}
	a.depth--
	return nil
}

func (a *Accounter) Usage() int64  { return a.usage }
func (a *Accounter) Depth() int    { return a.depth }
func (a *Accounter) Quota() int64  { return a.quota }
func (a *Accounter) MaxDepth() int { return a.maxDepth }
