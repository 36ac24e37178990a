package pipeline

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/net/html"

	"github.com/matzehuels/swcatalog/pkg/integrations"
	"github.com/matzehuels/swcatalog/pkg/registry"
)

// DefaultStatusField is the asset type field holding the asset state.
const DefaultStatusField = "asset_state_11000765764"

// descriptionSeparator replaces line breaks in asset descriptions.
const descriptionSeparator = "  |  "

// Enricher fills the asset-derived fields of installations.
type Enricher struct {
	Assets      AssetSource
	StatusField string
	Logger      *log.Logger
}

// NewEnricher creates an enricher reading statusField (empty → DefaultStatusField).
func NewEnricher(assets AssetSource, statusField string, logger *log.Logger) *Enricher {
	if statusField == "" {
		statusField = DefaultStatusField
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Enricher{Assets: assets, StatusField: statusField, Logger: logger}
}

// Enrich looks up the installation's machine and sets Name, Description and
// Status. A failed lookup leaves all three nil; it is logged, never returned.
func (e *Enricher) Enrich(ctx context.Context, in *registry.Installation) {
	in.Name, in.Description, in.Status = nil, nil, nil
	if in.Machine == "" {
		return
	}

	asset, err := e.Assets.Asset(ctx, in.Machine)
	if err != nil {
		if !errors.Is(err, integrations.ErrNotFound) {
			e.Logger.Warn("asset lookup failed", "machine", in.Machine, "err", err)
		}
		return
	}
	if asset == nil {
		return
	}

	in.Name = asset.Name
	if asset.Description != nil && *asset.Description != "" {
		d := CleanDescription(*asset.Description)
		in.Description = &d
	}
	in.Status = asset.TypeField(e.StatusField)
}

// CleanDescription strips markup from an HTML fragment, joins its lines
// with a visible separator and trims the result.
func CleanDescription(raw string) string {
	var sb strings.Builder
	z := html.NewTokenizer(strings.NewReader(raw))
	for {
		switch z.Next() {
		case html.ErrorToken:
			// io.EOF or malformed input; either way keep what was read.
			return finishDescription(sb.String())
		case html.TextToken:
			sb.Write(z.Text())
		}
	}
}

func finishDescription(s string) string {
	s = strings.TrimSpace(strings.ReplaceAll(s, "\r\n", "\n"))
	return strings.ReplaceAll(s, "\n", descriptionSeparator)
}
