package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tnqbao/gau-document-service/entity"
)

const (
	statsCacheTTL = 60 * time.Second

	// One warning email per owner per cooldown window.
	warnCooldown = 24 * time.Hour
)

type CategoryUsage struct {
	Count int64 `json:"count"`
	Bytes int64 `json:"bytes"`
}

type DashboardStats struct {
	Capacity  int64         `json:"capacity"`
	Used      int64         `json:"used"`
	Available int64         `json:"available"`
	Folders   int64         `json:"folders"`
	Text      CategoryUsage `json:"text"`
	Image     CategoryUsage `json:"image"`
	Pdf       CategoryUsage `json:"pdf"`
}

// usageSummary is the capacity-independent part of the dashboard, which is
// what gets cached per owner.
type usageSummary struct {
	Used    int64         `json:"used"`
	Folders int64         `json:"folders"`
	Text    CategoryUsage `json:"text"`
	Image   CategoryUsage `json:"image"`
	Pdf     CategoryUsage `json:"pdf"`
}

func statsCacheKey(ownerID uuid.UUID) string {
	return "dashboard:stats:" + ownerID.String()
}

func warnCooldownKey(ownerID uuid.UUID) string {
	return "dashboard:warned:" + ownerID.String()
}

// DashboardStats aggregates the owner's storage usage in one grouped query.
// A non-positive capacity falls back to the configured default quota.
// Categories with no files report {0,0}.
func (s *DocumentService) DashboardStats(ctx context.Context, ownerID uuid.UUID, capacity int64) (*DashboardStats, error) {
	if capacity <= 0 {
		capacity = s.defaultCapacity()
	}

	summary, err := s.usageSummary(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	return &DashboardStats{
		Capacity:  capacity,
		Used:      summary.Used,
		Available: capacity - summary.Used,
		Folders:   summary.Folders,
		Text:      summary.Text,
		Image:     summary.Image,
		Pdf:       summary.Pdf,
	}, nil
}

func (s *DocumentService) usageSummary(ctx context.Context, ownerID uuid.UUID) (*usageSummary, error) {
	if s.cache != nil {
		var cached usageSummary
		if err := s.cache.Get(ctx, statsCacheKey(ownerID), &cached); err == nil {
			return &cached, nil
		}
	}

	rows, err := s.repo.DocumentRepo.FileUsageByExtension(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	folders, err := s.repo.DocumentRepo.CountFolders(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	summary := usageSummary{Folders: folders}
	for _, row := range rows {
		summary.Used += row.Bytes
		switch entity.CategoryOf(row.Extension) {
		case entity.CategoryText:
			summary.Text.Count += row.Count
			summary.Text.Bytes += row.Bytes
		case entity.CategoryImage:
			summary.Image.Count += row.Count
			summary.Image.Bytes += row.Bytes
		case entity.CategoryPdf:
			summary.Pdf.Count += row.Count
			summary.Pdf.Bytes += row.Bytes
		}
	}

	if s.cache != nil {
		_ = s.cache.Set(ctx, statsCacheKey(ownerID), &summary, statsCacheTTL)
	}

	return &summary, nil
}

// warnOnLowStorage publishes an email warning when the owner crosses the
// usage threshold. Best effort: a broker hiccup never fails the upload.
func (s *DocumentService) warnOnLowStorage(ctx context.Context, ownerID uuid.UUID, email string) {
	if s.notifier == nil || email == "" {
		return
	}

	summary, err := s.usageSummary(ctx, ownerID)
	if err != nil {
		return
	}

	capacity := s.defaultCapacity()
	if float64(summary.Used) < s.warnThreshold()*float64(capacity) {
		return
	}

	// SetNX marks the owner as warned; a lost race or an existing marker means
	// someone else already sent it within the cooldown.
	if s.cache != nil {
		fresh, err := s.cache.SetNX(ctx, warnCooldownKey(ownerID), true, warnCooldown)
		if err == nil && !fresh {
			return
		}
	}

	content := fmt.Sprintf(
		"You have used %d of %d bytes of your storage. Delete unused files to free up space.",
		summary.Used, capacity,
	)
	_ = s.notifier.SendEmailWarning(ctx, email, "", "Your storage is almost full", content, "")
}
