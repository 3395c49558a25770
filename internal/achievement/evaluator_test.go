// Headliner - News Personalization and Reader Progression
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headliner

package achievement

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/headliner/internal/docstore"
	"github.com/tomtom215/headliner/internal/events"
	"github.com/tomtom215/headliner/internal/models"
	"github.com/tomtom215/headliner/internal/progression"
	"github.com/tomtom215/headliner/internal/repository"
)

var now = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

// recordingAwarder counts grants and can be told to fail.
type recordingAwarder struct {
	calls []int
	fail  bool
}

func (r *recordingAwarder) AddExperience(_ context.Context, _ string, points int) bool {
	r.calls = append(r.calls, points)
	return !r.fail
}

type fixture struct {
	users  *repository.Users
	defs   *repository.Achievements
	xp     *recordingAwarder
	events *events.Recorder
	eval   *Evaluator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := docstore.NewMemoryStore()
	f := &fixture{
		users:  repository.NewUsers(store),
		defs:   repository.NewAchievements(store),
		xp:     &recordingAwarder{},
		events: &events.Recorder{},
	}
	f.eval = NewEvaluator(f.users, f.defs, f.xp, zerolog.Nop(), WithPublisher(f.events))
	return f
}

func (f *fixture) define(t *testing.T, defs ...*models.Achievement) {
	t.Helper()
	if err := SeedCatalog(context.Background(), f.defs, defs); err != nil {
		t.Fatalf("SeedCatalog: %v", err)
	}
}

func (f *fixture) addUser(t *testing.T, mutate func(u *models.User)) {
	t.Helper()
	u := models.NewUser("u1", "ada", []string{"Tech"}, now)
	if mutate != nil {
		mutate(u)
	}
	if err := f.users.Put(context.Background(), u); err != nil {
		t.Fatalf("Put: %v", err)
	}
}

func (f *fixture) achievements(t *testing.T) []string {
	t.Helper()
	u, err := f.users.Get(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	return u.Achievements
}

func TestMeetsRequirements(t *testing.T) {
	u := models.NewUser("u1", "ada", nil, now)
	u.Streak = 7
	u.LikedNews = []string{"a", "b", "c"}

	tests := []struct {
		name string
		def  *models.Achievement
		want bool
	}{
		{"no thresholds", &models.Achievement{ID: "free"}, true},
		{"streak met", &models.Achievement{ID: "s", RequiredStreak: models.Threshold(7)}, true},
		{"streak short", &models.Achievement{ID: "s", RequiredStreak: models.Threshold(8)}, false},
		{"likes and streak", &models.Achievement{ID: "c", RequiredStreak: models.Threshold(3), RequiredLikes: models.Threshold(3)}, true},
		{"one of two short", &models.Achievement{ID: "c", RequiredStreak: models.Threshold(3), RequiredLikes: models.Threshold(4)}, false},
		{"zero dislikes required", &models.Achievement{ID: "d", RequiredDislikes: models.Threshold(0)}, true},
		{"dislikes short", &models.Achievement{ID: "d", RequiredDislikes: models.Threshold(1)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MeetsRequirements(u, tt.def); got != tt.want {
				t.Errorf("MeetsRequirements = %v, want %v", got, tt.want)
			}
		})
	}

	u.Achievements = []string{"held"}
	if !MeetsRequirements(u, &models.Achievement{ID: "held", RequiredStreak: models.Threshold(100)}) {
		t.Error("held achievement should count as met")
	}
}

func TestCheckAndAwardAchievement(t *testing.T) {
	f := newFixture(t)
	f.define(t, &models.Achievement{ID: "first_like", Name: "First Like", RequiredLikes: models.Threshold(1), XPReward: 10})
	f.addUser(t, func(u *models.User) { u.LikedNews = []string{"n1"} })
	ctx := context.Background()

	if !f.eval.CheckAndAwardAchievement(ctx, "u1", "first_like") {
		t.Fatal("achievement not awarded")
	}
	if got := f.achievements(t); !reflect.DeepEqual(got, []string{"first_like"}) {
		t.Errorf("achievements = %v", got)
	}
	if !reflect.DeepEqual(f.xp.calls, []int{10}) {
		t.Errorf("xp grants = %v, want [10]", f.xp.calls)
	}
	evs := f.events.ByTopic(events.TopicAchievementAwarded)
	if len(evs) != 1 || evs[0].AchievementID != "first_like" || evs[0].AchievementName != "First Like" || evs[0].XPReward != 10 {
		t.Errorf("events = %+v", evs)
	}
}

// Checking twice, or through CheckAll after a direct check, grants once.
func TestAchievementAwardedOnce(t *testing.T) {
	f := newFixture(t)
	f.define(t, &models.Achievement{ID: "first_like", Name: "First Like", RequiredLikes: models.Threshold(1), XPReward: 10})
	f.addUser(t, func(u *models.User) { u.LikedNews = []string{"n1"} })
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if !f.eval.CheckAndAwardAchievement(ctx, "u1", "first_like") {
			t.Fatalf("check %d returned false", i)
		}
	}
	if awarded := f.eval.CheckAllAchievements(ctx, "u1"); len(awarded) != 0 {
		t.Errorf("CheckAll re-awarded %v", awarded)
	}
	if got := f.achievements(t); !reflect.DeepEqual(got, []string{"first_like"}) {
		t.Errorf("achievements = %v", got)
	}
	if len(f.xp.calls) != 1 {
		t.Errorf("xp granted %d times, want 1", len(f.xp.calls))
	}
	if n := len(f.events.Events); n != 1 {
		t.Errorf("published %d events, want 1", n)
	}

	outcome, err := f.eval.Evaluate(ctx, "u1", "first_like")
	if err != nil || outcome != OutcomeAlreadyEarned {
		t.Errorf("Evaluate = %v, %v; want already_earned", outcome, err)
	}
}

func TestCheckAndAwardNotMet(t *testing.T) {
	f := newFixture(t)
	f.define(t, &models.Achievement{ID: "streak_3", Name: "Warming Up", RequiredStreak: models.Threshold(3), XPReward: 20})
	f.addUser(t, func(u *models.User) { u.Streak = 2 })

	if f.eval.CheckAndAwardAchievement(context.Background(), "u1", "streak_3") {
		t.Error("awarded below threshold")
	}
	if got := f.achievements(t); len(got) != 0 {
		t.Errorf("achievements = %v, want none", got)
	}
	if len(f.xp.calls) != 0 || len(f.events.Events) != 0 {
		t.Errorf("side effects on unmet check: xp=%v events=%v", f.xp.calls, f.events.Events)
	}
}

func TestCheckAndAwardFailsClosed(t *testing.T) {
	f := newFixture(t)
	f.define(t, &models.Achievement{ID: "free", Name: "Free"})
	f.addUser(t, nil)
	ctx := context.Background()

	if f.eval.CheckAndAwardAchievement(ctx, "ghost", "free") {
		t.Error("missing user awarded")
	}
	if f.eval.CheckAndAwardAchievement(ctx, "u1", "nope") {
		t.Error("missing definition awarded")
	}
	if f.eval.CheckAndAwardAchievement(ctx, "", "free") {
		t.Error("empty user id awarded")
	}
	if _, err := f.eval.Evaluate(ctx, "u1", "nope"); !docstore.IsNotFound(err) {
		t.Errorf("Evaluate error = %v, want not found", err)
	}
	if got := f.achievements(t); len(got) != 0 {
		t.Errorf("achievements = %v, want none", got)
	}
}

func TestAwardSurvivesExperienceFailure(t *testing.T) {
	f := newFixture(t)
	f.xp.fail = true
	f.define(t, &models.Achievement{ID: "free", Name: "Free", XPReward: 50})
	f.addUser(t, nil)

	if !f.eval.CheckAndAwardAchievement(context.Background(), "u1", "free") {
		t.Fatal("XP failure should not undo the award")
	}
	if got := f.achievements(t); !reflect.DeepEqual(got, []string{"free"}) {
		t.Errorf("achievements = %v", got)
	}
}

func TestAwardSurvivesPublishFailure(t *testing.T) {
	f := newFixture(t)
	f.events.Err = errors.New("bus down")
	f.define(t, &models.Achievement{ID: "free", Name: "Free", XPReward: 5})
	f.addUser(t, nil)

	if !f.eval.CheckAndAwardAchievement(context.Background(), "u1", "free") {
		t.Error("publish failure should not undo the award")
	}
}

func TestZeroRewardSkipsExperience(t *testing.T) {
	f := newFixture(t)
	f.define(t, &models.Achievement{ID: "free", Name: "Free"})
	f.addUser(t, nil)

	f.eval.CheckAndAwardAchievement(context.Background(), "u1", "free")
	if len(f.xp.calls) != 0 {
		t.Errorf("xp grants = %v, want none", f.xp.calls)
	}
}

func TestCheckAllAchievements(t *testing.T) {
	f := newFixture(t)
	f.define(t, DefaultCatalog()...)
	f.addUser(t, func(u *models.User) {
		u.Streak = 7
		u.LikedNews = []string{"a"}
	})

	awarded := f.eval.CheckAllAchievements(context.Background(), "u1")
	// Definitions are listed by ID.
	want := []string{"first_like", "streak_3", "streak_7"}
	if !reflect.DeepEqual(awarded, want) {
		t.Errorf("awarded = %v, want %v", awarded, want)
	}
	if got := f.xp.calls; !reflect.DeepEqual(got, []int{10, 20, 50}) {
		t.Errorf("xp grants = %v", got)
	}
}

// failingDefs fails Get for one definition so CheckAll has to keep going.
type failingDefs struct {
	*repository.Achievements
	broken string
}

func (d *failingDefs) Get(ctx context.Context, id string) (*models.Achievement, error) {
	if id == d.broken {
		return nil, docstore.ErrUnavailable
	}
	return d.Achievements.Get(ctx, id)
}

func TestCheckAllContinuesPastFailures(t *testing.T) {
	f := newFixture(t)
	f.define(t,
		&models.Achievement{ID: "a_first", Name: "A"},
		&models.Achievement{ID: "b_broken", Name: "B"},
		&models.Achievement{ID: "c_last", Name: "C"},
	)
	f.addUser(t, nil)
	eval := NewEvaluator(f.users, &failingDefs{Achievements: f.defs, broken: "b_broken"}, f.xp, zerolog.Nop())

	awarded := eval.CheckAllAchievements(context.Background(), "u1")
	if want := []string{"a_first", "c_last"}; !reflect.DeepEqual(awarded, want) {
		t.Errorf("awarded = %v, want %v", awarded, want)
	}
}

func TestCheckAllUnknownUser(t *testing.T) {
	f := newFixture(t)
	f.define(t, DefaultCatalog()...)
	if awarded := f.eval.CheckAllAchievements(context.Background(), "ghost"); len(awarded) != 0 {
		t.Errorf("awarded = %v for unknown user", awarded)
	}
}

// With the real tracker the reward rolls levels over.
func TestAwardGrantsExperienceThroughTracker(t *testing.T) {
	store := docstore.NewMemoryStore()
	users := repository.NewUsers(store)
	defs := repository.NewAchievements(store)
	tracker := progression.NewTracker(users, progression.Config{Location: time.UTC, LoginXP: 10}, zerolog.Nop())
	eval := NewEvaluator(users, defs, tracker, zerolog.Nop())
	ctx := context.Background()

	if err := SeedCatalog(ctx, defs, []*models.Achievement{{ID: "big", Name: "Big", XPReward: 20}}); err != nil {
		t.Fatal(err)
	}
	u := models.NewUser("u1", "ada", nil, now)
	u.Level = 3
	u.Experience = 95
	if err := users.Put(ctx, u); err != nil {
		t.Fatal(err)
	}

	if !eval.CheckAndAwardAchievement(ctx, "u1", "big") {
		t.Fatal("not awarded")
	}
	got, _ := users.Get(ctx, "u1")
	if got.Level != 4 || got.Experience != 15 {
		t.Errorf("level=%d xp=%d, want 4 15", got.Level, got.Experience)
	}
}

func TestOverview(t *testing.T) {
	f := newFixture(t)
	f.define(t, DefaultCatalog()...)
	f.addUser(t, func(u *models.User) {
		u.Streak = 3
		u.Achievements = []string{"streak_3"}
	})

	overview, err := f.eval.Overview(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Overview: %v", err)
	}
	if len(overview) != len(DefaultCatalog()) {
		t.Fatalf("overview has %d entries", len(overview))
	}
	for _, p := range overview {
		if p.Achievement.ID == "streak_3" && (!p.Earned || !p.Met) {
			t.Errorf("streak_3 = %+v", p)
		}
		if p.Achievement.ID == "streak_7" && (p.Earned || p.Met) {
			t.Errorf("streak_7 = %+v", p)
		}
	}
}

func TestSeedCatalogValidates(t *testing.T) {
	f := newFixture(t)
	err := SeedCatalog(context.Background(), f.defs, []*models.Achievement{{ID: "bad", Name: "Bad", XPReward: -1}})
	if err == nil {
		t.Error("negative reward accepted")
	}
}

func TestDefaultCatalogIsValid(t *testing.T) {
	seen := map[string]bool{}
	for _, def := range DefaultCatalog() {
		if seen[def.ID] {
			t.Errorf("duplicate id %s", def.ID)
		}
		seen[def.ID] = true
		if def.XPReward <= 0 {
			t.Errorf("%s has no reward", def.ID)
		}
	}
}
