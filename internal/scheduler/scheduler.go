package scheduler

import (
	"context"
	"log/slog"
	"time"

	"hackline/internal/bot"
	"hackline/internal/client"
	"hackline/internal/database"

	"github.com/robfig/cron/v3"
)

const (
	HourlyDigestSpec      = "0 * * * *"
	Timezone              = "UTC"
	TimezoneOffsetSeconds = 0
	sendDigestsTimeout    = 15 * time.Minute
)

type Scheduler struct {
	ctx  context.Context
	cron *cron.Cron
	bot  *bot.Bot
	db   *database.Database
	news *client.Client
	log  *slog.Logger
}

func New(
	ctx context.Context,
	bot *bot.Bot,
	db *database.Database,
	news *client.Client,
	log *slog.Logger,
) *Scheduler {
	c := cron.New(cron.WithLocation(time.FixedZone(Timezone, TimezoneOffsetSeconds)))

	return &Scheduler{
		ctx:  ctx,
		cron: c,
		bot:  bot,
		db:   db,
		news: news,
		log:  log,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(HourlyDigestSpec, s.sendHourDigests); err != nil {
		return err
	}

	s.cron.Start()

	return nil
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
}

func (s *Scheduler) sendHourDigests() {
	ctx, cancel := context.WithTimeout(s.ctx, sendDigestsTimeout)
	defer cancel()

	select {
	case <-ctx.Done():
		s.log.InfoContext(ctx, "Scheduler context is done",
			"error", ctx.Err())
		return
	default:
	}

	hourUTC := int64(time.Now().UTC().Hour())

	sessions, err := s.db.GetDigestChats(ctx, hourUTC)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to get digest chats",
			"error", err,
			"hourUTC", hourUTC)
		return
	}

	if len(sessions) == 0 {
		return
	}

	list, err := s.news.Stories(ctx)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to fetch stories",
			"error", err,
			"hourUTC", hourUTC,
			"chatCount", len(sessions))
		return
	}

	for _, session := range sessions {
		if ctx.Err() != nil {
			s.log.InfoContext(ctx, "Scheduler context is done",
				"error", ctx.Err())
			return
		}

		sent, err := s.bot.SendDigest(ctx, session.ChatID, list)
		if err != nil {
			s.log.ErrorContext(ctx, "Failed to send digest",
				"error", err,
				"hourUTC", hourUTC,
				"chatID", session.ChatID,
				"sent", sent)
		}
	}
}
