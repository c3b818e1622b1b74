// Package loader reads a KMyMoney ledger file from disk and turns it into a
// queryable ledger.Ledger. KMyMoney stores its files gzip compressed; plain
// XML files are accepted as well and detected by their first bytes.
//
// Loading runs four phases, each reported to the telemetry collector of the
// context:
//   - gunzip: decompress the file when it carries the gzip magic bytes
//   - parse: build the generic record tree from the XML
//   - decode: map records onto typed transactions, splits and accounts
//   - build: resolve account paths and join splits with their transactions
//
// Example usage:
//
//	l, err := loader.New().Load(ctx, "household.kmy")
//
//	// Fail when any transaction does not balance
//	l, err := loader.New(loader.WithValidation()).Load(ctx, "household.kmy")
package loader

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/robinvdvleuten/kmy/ledger"
	"github.com/robinvdvleuten/kmy/parser"
	"github.com/robinvdvleuten/kmy/telemetry"
)

var gzipMagic = []byte{0x1f, 0x8b}

// Loader loads ledger files. Configure it using functional options passed
// to New:
//
//	loader := New(WithValidation())
type Loader struct {
	// Validate runs the double-entry checks after building the ledger and
	// fails the load with *ledger.ValidationErrors when any check fails.
	Validate bool
}

// Option configures how files are loaded.
type Option func(*Loader)

// WithValidation makes Load fail on unbalanced transactions and on splits
// referencing unknown accounts. Without it these are only reported by
// (*ledger.Ledger).Validate.
func WithValidation() Option {
	return func(l *Loader) {
		l.Validate = true
	}
}

// New creates a new Loader with the given options.
func New(opts ...Option) *Loader {
	l := &Loader{}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads, parses and builds the ledger stored in filename.
func (l *Loader) Load(ctx context.Context, filename string) (*ledger.Ledger, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}
	defer func() { _ = f.Close() }()

	timer := telemetry.StartTimer(ctx, "load "+filepath.Base(filename))
	defer timer.End()

	return l.load(telemetry.WithRootTimer(ctx, timer), filename, f)
}

// LoadBytes is like Load but reads the ledger from memory. The filename is
// only used in error messages.
func (l *Loader) LoadBytes(ctx context.Context, filename string, data []byte) (*ledger.Ledger, error) {
	timer := telemetry.StartTimer(ctx, "load "+filepath.Base(filename))
	defer timer.End()

	return l.load(telemetry.WithRootTimer(ctx, timer), filename, bytes.NewReader(data))
}

func (l *Loader) load(ctx context.Context, filename string, r io.Reader) (*ledger.Ledger, error) {
	log := zerolog.Ctx(ctx)

	src, err := decompress(ctx, filename, r)
	if err != nil {
		return nil, err
	}

	parseTimer := telemetry.StartTimer(ctx, "parser.parse")
	root, err := parser.Parse(ctx, filename, src)
	parseTimer.End()
	if err != nil {
		return nil, err
	}

	decodeTimer := telemetry.StartTimer(ctx, "parser.decode")
	doc, err := parser.DecodeDocument(root)
	decodeTimer.End()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}

	log.Debug().
		Str("file", filename).
		Int("accounts", len(doc.Accounts)).
		Int("transactions", len(doc.Transactions)).
		Msg("decoded ledger")

	lg, err := ledger.New(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}

	if l.Validate {
		validateTimer := telemetry.StartTimer(ctx, "ledger.validate")
		err := lg.Validate()
		validateTimer.End()
		if err != nil {
			return nil, err
		}
	}

	return lg, nil
}

// ReadSource returns the XML text of a ledger file, decompressed when
// needed. It is used to show source context next to parse errors.
func ReadSource(filename string) ([]byte, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}
	defer func() { _ = f.Close() }()

	src, err := decompress(context.Background(), filename, f)
	if err != nil {
		return nil, err
	}
	return io.ReadAll(src)
}

// Decompress is ReadSource for a ledger held in memory.
func Decompress(data []byte) ([]byte, error) {
	src, err := decompress(context.Background(), "<memory>", bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return io.ReadAll(src)
}

// decompress returns a reader over the XML text of r, gunzipping it when r
// starts with the gzip magic bytes.
func decompress(ctx context.Context, filename string, r io.Reader) (io.Reader, error) {
	br := bufio.NewReader(r)
	magic, err := br.Peek(len(gzipMagic))
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}
	if !bytes.Equal(magic, gzipMagic) {
		return br, nil
	}

	zerolog.Ctx(ctx).Debug().Str("file", filename).Msg("decompressing gzip ledger")

	timer := telemetry.StartTimer(ctx, "load.gunzip")
	defer timer.End()

	zr, err := gzip.NewReader(br)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress %s: %w", filename, err)
	}
	data, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress %s: %w", filename, err)
	}
	return bytes.NewReader(data), nil
}
