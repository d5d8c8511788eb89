package timeline

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

var redisTimelineKey = "timeline/kigurumi"

// how many note ids the fan-out list retains
const defaultMaxLength = 100

// how many candidate rows the DB fallback scans before in-process filtering
const fallbackScanWindow = 500

// Service maintains the kigurumi hashtag timeline: eligible notes are fanned
// out to a capped redis list on creation, and reads fall back to a database
// scan when redis is absent or empty.
type Service struct {
	Logger *slog.Logger
	DB     *gorm.DB
	// optional; when nil, fan-out is skipped and reads always use the DB
	Redis     *redis.Client
	MaxLength int64
}

func NewService(logger *slog.Logger, db *gorm.DB, rdb *redis.Client) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		Logger:    logger,
		DB:        db,
		Redis:     rdb,
		MaxLength: defaultMaxLength,
	}
}

func (s *Service) AutoMigrate() error {
	return s.DB.AutoMigrate(&Note{})
}

// RecordNote upserts a note into the timeline's read model.
func (s *Service) RecordNote(ctx context.Context, note *Note) error {
	return s.DB.WithContext(ctx).Save(note).Error
}

// PushIfEligible fans an eligible note out to the redis timeline. Ineligible
// notes and redis-less deployments are a no-op, never an error.
func (s *Service) PushIfEligible(ctx context.Context, note *Note) error {
	if !Eligible(note) {
		return nil
	}
	if s.Redis == nil {
		return nil
	}

	// push and trim in a single redis round-trip
	multi := s.Redis.Pipeline()
	multi.LPush(ctx, redisTimelineKey, note.ID)
	multi.LTrim(ctx, redisTimelineKey, 0, s.MaxLength-1)
	_, err := multi.Exec(ctx)
	if err != nil {
		return err
	}
	s.Logger.Debug("fanned note out to kigurumi timeline", "noteID", note.ID)
	return nil
}

type ListOptions struct {
	// return only notes with id less than this (exclusive)
	UntilID string
	// return only notes with id greater than this (exclusive)
	SinceID string
	Limit   int
}

// List returns timeline notes, newest first. The redis list is consulted
// first; on redis absence, error, or an empty window the read degrades to a
// database scan.
func (s *Service) List(ctx context.Context, opts ListOptions) ([]Note, error) {
	limit := opts.Limit
	if limit <= 0 || limit > defaultMaxLength {
		limit = defaultMaxLength
	}

	if s.Redis != nil {
		notes, err := s.listFromRedis(ctx, opts, limit)
		if err != nil {
			s.Logger.Error("redis timeline read failed, using db fallback", "err", err)
		} else if len(notes) > 0 {
			return notes, nil
		}
	}

	return s.listFromDB(ctx, opts, limit)
}

func (s *Service) listFromRedis(ctx context.Context, opts ListOptions, limit int) ([]Note, error) {
	ids, err := s.Redis.LRange(ctx, redisTimelineKey, 0, s.MaxLength-1).Result()
	if err != nil {
		return nil, err
	}

	// ids are newest-first; apply the paging window before the db lookup
	var window []string
	for _, id := range ids {
		if opts.UntilID != "" && id >= opts.UntilID {
			continue
		}
		if opts.SinceID != "" && id <= opts.SinceID {
			continue
		}
		window = append(window, id)
		if len(window) == limit {
			break
		}
	}
	if len(window) == 0 {
		return nil, nil
	}

	var rows []Note
	if err := s.DB.WithContext(ctx).Where("id IN ?", window).Find(&rows).Error; err != nil {
		return nil, err
	}
	byID := make(map[string]Note, len(rows))
	for _, n := range rows {
		byID[n.ID] = n
	}

	// preserve redis ordering; drop ids whose rows are gone
	out := make([]Note, 0, len(window))
	for _, id := range window {
		if n, ok := byID[id]; ok {
			out = append(out, n)
		}
	}
	return out, nil
}

func (s *Service) listFromDB(ctx context.Context, opts ListOptions, limit int) ([]Note, error) {
	q := s.DB.WithContext(ctx).
		Where("visibility = ?", VisibilityPublic).
		Order("id DESC").
		Limit(fallbackScanWindow)
	if opts.UntilID != "" {
		q = q.Where("id < ?", opts.UntilID)
	}
	if opts.SinceID != "" {
		q = q.Where("id > ?", opts.SinceID)
	}

	var rows []Note
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}

	// file and tag eligibility live in serialized columns; filter in-process
	out := make([]Note, 0, limit)
	for i := range rows {
		if Eligible(&rows[i]) {
			out = append(out, rows[i])
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}
