package normalize

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/gonyrida/sitedaily/internal/models/dtos"
)

// InlineImages rewrites every photo slot of the draft's reference
// sections and CAR sheet so the image value is self-contained before the
// payload leaves the process. Values that are already embeddable (data
// URLs) or plain remote URLs pass through unchanged; local file paths
// are read and encoded; anything unreadable resolves to "no image"
// rather than failing the whole export.
//
// Sections are inlined concurrently since a report can carry dozens of
// photos.
func InlineImages(ctx context.Context, d *dtos.ReportDraft) (*dtos.ReportDraft, error) {
	out := *d

	g, ctx := errgroup.WithContext(ctx)

	if len(d.ReferenceSections) > 0 {
		sections := make([]dtos.ReferenceSection, len(d.ReferenceSections))
		copy(sections, d.ReferenceSections)
		for i := range sections {
			i := i
			g.Go(func() error {
				sections[i] = inlineSection(ctx, sections[i])
				return ctx.Err()
			})
		}
		out.ReferenceSections = sections
	}

	if d.CARSheet != nil {
		sheet := *d.CARSheet
		groups := make([]dtos.CARPhotoGroup, len(sheet.PhotoGroups))
		copy(groups, sheet.PhotoGroups)
		for i := range groups {
			i := i
			g.Go(func() error {
				groups[i].Slots = inlineSlots(groups[i].Slots)
				return ctx.Err()
			})
		}
		sheet.PhotoGroups = groups
		out.CARSheet = &sheet
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("inline report images: %w", err)
	}
	return &out, nil
}

func inlineSection(ctx context.Context, s dtos.ReferenceSection) dtos.ReferenceSection {
	entries := make([]dtos.SectionEntry, len(s.Entries))
	copy(entries, s.Entries)
	for i := range entries {
		if ctx.Err() != nil {
			return s
		}
		entries[i].Slots = inlineSlots(entries[i].Slots)
	}
	s.Entries = entries
	return s
}

func inlineSlots(slots []dtos.PhotoSlot) []dtos.PhotoSlot {
	out := make([]dtos.PhotoSlot, len(slots))
	for i, slot := range slots {
		slot.Image = InlineImage(slot.Image)
		out[i] = slot
	}
	return out
}

// InlineImage normalizes one image reference to an embeddable value.
func InlineImage(ref string) string {
	switch {
	case ref == "":
		return ""
	case strings.HasPrefix(ref, "data:"),
		strings.HasPrefix(ref, "http://"),
		strings.HasPrefix(ref, "https://"):
		return ref
	}

	path := strings.TrimPrefix(ref, "file://")
	data, err := os.ReadFile(path)
	if err != nil {
		// Unrecognized or unreadable reference: no image.
		return ""
	}
	return EncodeDataURL(data)
}

// EncodeDataURL wraps raw image bytes in a base64 data URL.
func EncodeDataURL(data []byte) string {
	mime := http.DetectContentType(data)
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}
