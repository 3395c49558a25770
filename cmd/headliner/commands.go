// Headliner - News Personalization and Reader Progression
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headliner

package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/tomtom215/headliner/internal/app"
	"github.com/tomtom215/headliner/internal/leaderboard"
	"github.com/tomtom215/headliner/internal/models"
	"github.com/tomtom215/headliner/internal/profile"
)

func seedCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Store the built-in achievement catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return g.withApp(cmd, func(ctx context.Context, a *app.App) error {
				if err := a.Seed(ctx); err != nil {
					return err
				}
				defs, err := a.Achievements.List(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "seeded %d achievements\n", len(defs))
				return nil
			})
		},
	}
}

func registerCmd(g *globals) *cobra.Command {
	var (
		name string
		tags []string
	)
	cmd := &cobra.Command{
		Use:   "register <user-id>",
		Short: "Create a reader profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.withApp(cmd, func(ctx context.Context, a *app.App) error {
				u, err := a.Register(ctx, profile.Registration{
					UserID:      args[0],
					ProfileName: name,
					Tags:        tags,
				})
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), u)
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "profile name")
	cmd.Flags().StringSliceVar(&tags, "tags", nil, "interest tags, comma separated")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("tags")
	return cmd
}

func publishCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "publish <articles.json>",
		Short: "Publish articles from a JSON array",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var articles []*models.Article
			if err := json.Unmarshal(data, &articles); err != nil {
				return fmt.Errorf("decode %s: %w", args[0], err)
			}
			return g.withApp(cmd, func(ctx context.Context, a *app.App) error {
				for _, article := range articles {
					if article.Date.IsZero() {
						article.Date = time.Now().UTC()
					}
					if err := a.Feed.Publish(ctx, article); err != nil {
						return fmt.Errorf("publish %s: %w", article.ID, err)
					}
				}
				fmt.Fprintf(cmd.OutOrStdout(), "published %d articles\n", len(articles))
				return nil
			})
		},
	}
}

type loginOutput struct {
	SessionID    string `json:"correlation_id"`
	Outcome      string `json:"outcome"`
	Streak       int    `json:"streak"`
	XPAwarded    int    `json:"xp_awarded"`
	Level        int    `json:"level"`
	Experience   int    `json:"experience"`
	LevelsGained int    `json:"levels_gained"`
}

func loginCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "login <user-id>",
		Short: "Record today's login and update the reading streak",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.withApp(cmd, func(ctx context.Context, a *app.App) error {
				s, res, err := a.Login(ctx, args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), loginOutput{
					SessionID:    s.CorrelationID,
					Outcome:      string(res.Outcome),
					Streak:       res.Streak,
					XPAwarded:    res.XPAwarded,
					Level:        res.Progress.Level,
					Experience:   res.Progress.Experience,
					LevelsGained: res.LevelsGained,
				})
			})
		},
	}
}

func recommendCmd(g *globals) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "recommend <user-id>",
		Short: "Print the reader's personalized feed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.withApp(cmd, func(ctx context.Context, a *app.App) error {
				s, err := models.NewSession(args[0], time.Now())
				if err != nil {
					return err
				}
				return printArticles(cmd, a.Recommend(ctx, s, limit))
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum articles (0 uses the configured default)")
	return cmd
}

func reactCmd(g *globals, kind string) *cobra.Command {
	return &cobra.Command{
		Use:   kind + " <user-id> <article-id>",
		Short: fmt.Sprintf("Record a %s and re-weight the reader's tags", kind),
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.withApp(cmd, func(ctx context.Context, a *app.App) error {
				s, err := models.NewSession(args[0], time.Now())
				if err != nil {
					return err
				}
				react := a.Like
				if kind == "dislike" {
					react = a.Dislike
				}
				if !react(ctx, s, args[1]) {
					return fmt.Errorf("%s of %s by %s was not recorded", kind, args[1], args[0])
				}
				u, err := a.Users.Get(ctx, args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), u.TagWeights)
			})
		},
	}
}

func searchCmd(g *globals) *cobra.Command {
	var (
		tag   string
		limit int
	)
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Find recent articles by title text or tag",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.withApp(cmd, func(ctx context.Context, a *app.App) error {
				var (
					articles []*models.Article
					err      error
				)
				switch {
				case tag != "":
					articles, err = a.Feed.ByTag(ctx, tag, limit)
				case len(args) == 1:
					articles, err = a.Feed.Search(ctx, args[0], limit)
				default:
					articles, err = a.Feed.Latest(ctx, limit)
				}
				if err != nil {
					return err
				}
				return printArticles(cmd, articles)
			})
		},
	}
	cmd.Flags().StringVar(&tag, "tag", "", "list articles carrying this tag instead of searching")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum articles (0 uses the page size)")
	return cmd
}

func printArticles(cmd *cobra.Command, articles []*models.Article) error {
	w := cmd.OutOrStdout()
	for _, a := range articles {
		if _, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", a.ID, a.Date.Format(time.DateOnly), strings.Join(a.Tags, ","), a.Title); err != nil {
			return err
		}
	}
	return nil
}

type achievementOutput struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	XPReward int    `json:"xp_reward"`
	Earned   bool   `json:"earned"`
	Met      bool   `json:"met"`
}

func achievementsCmd(g *globals) *cobra.Command {
	var check bool
	cmd := &cobra.Command{
		Use:   "achievements <user-id>",
		Short: "Show the reader's achievements",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.withApp(cmd, func(ctx context.Context, a *app.App) error {
				if check {
					awarded := a.Evaluator.CheckAllAchievements(ctx, args[0])
					if len(awarded) > 0 {
						a.Board.Invalidate()
					}
				}
				overview, err := a.Evaluator.Overview(ctx, args[0])
				if err != nil {
					return err
				}
				out := make([]achievementOutput, len(overview))
				for i, p := range overview {
					out[i] = achievementOutput{
						ID:       p.Achievement.ID,
						Name:     p.Achievement.Name,
						XPReward: p.Achievement.XPReward,
						Earned:   p.Earned,
						Met:      p.Met,
					}
				}
				return printJSON(cmd.OutOrStdout(), out)
			})
		},
	}
	cmd.Flags().BoolVar(&check, "check", false, "award any achievement whose requirements are now met")
	return cmd
}

func leaderboardCmd(g *globals) *cobra.Command {
	var (
		limit int
		user  string
	)
	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Rank readers by level, experience and streak",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return g.withApp(cmd, func(ctx context.Context, a *app.App) error {
				if user != "" {
					entry, ok, err := a.Board.RankOf(ctx, user)
					if err != nil {
						return err
					}
					if !ok {
						return fmt.Errorf("reader %s is not ranked", user)
					}
					return printJSON(cmd.OutOrStdout(), []leaderboard.Entry{entry})
				}
				entries, err := a.Board.Top(ctx, limit)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), entries)
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "entries to show (0 uses the configured size)")
	cmd.Flags().StringVar(&user, "user", "", "show only this reader's standing")
	return cmd
}

func notificationsCmd(g *globals) *cobra.Command {
	var (
		markSeen bool
		clearAll bool
	)
	cmd := &cobra.Command{
		Use:   "notifications <user-id>",
		Short: "List the reader's notifications, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.withApp(cmd, func(ctx context.Context, a *app.App) error {
				list, err := a.Notify.List(ctx, args[0])
				if err != nil {
					return err
				}
				if err := printJSON(cmd.OutOrStdout(), list); err != nil {
					return err
				}
				switch {
				case clearAll:
					return a.Notify.Clear(ctx, args[0])
				case markSeen:
					return a.Notify.MarkAllSeen(ctx, args[0])
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&markSeen, "mark-seen", false, "mark every listed notification as seen")
	cmd.Flags().BoolVar(&clearAll, "clear", false, "delete every notification after listing")
	return cmd
}
