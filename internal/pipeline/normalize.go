package pipeline

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/alnah/go-course2pdf/internal/symbols"
)

// ErrInvalidNormalizer indicates an unusable NormalizerConfig.
var ErrInvalidNormalizer = errors.New("invalid normalizer configuration")

// Default sizes in px, matching the printed body font.
const (
	DefaultRootSize     = 15
	DefaultBaseFontSize = 15
)

// NormalizerConfig configures a Normalizer.
type NormalizerConfig struct {
	Tables          *symbols.Tables // required
	Assets          AssetChecker    // nil drops every emoji
	RootSize        float64         // px per rem, 0 = DefaultRootSize
	BaseFontSize    float64         // px per em, 0 = DefaultBaseFontSize
	InertScriptType string          // "" = DefaultInertScriptType
	FilesDir        string          // "" = leave image sources alone
	Logger          *zap.Logger
}

// Normalizer turns a raw activity fragment into printable HTML.
// It holds only immutable state and is safe for concurrent use.
type Normalizer struct {
	emoji     *EmojiRewriter
	math      *MathRewriter
	units     UnitNormalizer
	files     *FileRefRewriter
	sanitizer *Sanitizer
	logger    *zap.Logger
}

// NewNormalizer validates cfg and builds a Normalizer.
func NewNormalizer(cfg NormalizerConfig) (*Normalizer, error) {
	if cfg.Tables == nil {
		return nil, fmt.Errorf("%w: symbol tables are required", ErrInvalidNormalizer)
	}
	if cfg.RootSize < 0 || cfg.BaseFontSize < 0 {
		return nil, fmt.Errorf("%w: font sizes must be positive", ErrInvalidNormalizer)
	}
	if cfg.RootSize == 0 {
		cfg.RootSize = DefaultRootSize
	}
	if cfg.BaseFontSize == 0 {
		cfg.BaseFontSize = DefaultBaseFontSize
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	n := &Normalizer{
		emoji:     NewEmojiRewriter(cfg.Tables, cfg.Assets, logger),
		math:      NewMathRewriter(cfg.Tables),
		units:     UnitNormalizer{RootSize: cfg.RootSize, BaseFontSize: cfg.BaseFontSize},
		sanitizer: NewSanitizer(cfg.InertScriptType),
		logger:    logger,
	}
	if cfg.FilesDir != "" {
		files, err := NewFileRefRewriter(cfg.FilesDir)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidNormalizer, err)
		}
		n.files = files
	}
	return n, nil
}

// Normalize runs the fixed stage order: math substitution on the text,
// then parse, emoji images in text nodes, unit normalization, file
// references, inert script removal, serialization, and wrapping in a block
// container. Only context cancellation and serialization failures are
// returned.
func (n *Normalizer) Normalize(ctx context.Context, fragment string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	content := n.math.Rewrite(fragment)
	if err := ctx.Err(); err != nil {
		return "", err
	}

	doc := ParseFragment(content)
	if root := doc.Root(); root != nil {
		n.emoji.RewriteTree(root)
		n.units.Normalize(root)
		if n.files != nil {
			n.files.Rewrite(root)
		}
	}
	if removed := n.sanitizer.StripInertScripts(doc); removed > 0 {
		n.logger.Debug("removed inert scripts", zap.Int("count", removed))
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	out, err := doc.Render()
	if err != nil {
		return "", fmt.Errorf("serializing fragment: %w", err)
	}
	return Wrap(out), nil
}
