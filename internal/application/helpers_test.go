package application

import (
	"io"
	"log/slog"

	"github.com/example/campus-events/internal/domain"
	"github.com/example/campus-events/internal/session"
	"github.com/example/campus-events/internal/testfixtures"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func principalFor(role session.Role) Principal {
	return PrincipalFromSession(testfixtures.Session(role))
}

func dayKey(offset int) string {
	return domain.DayKey(testfixtures.Day(offset))
}

func newSchedulingService(b *testfixtures.Backend, cache CatalogCache) *SchedulingService {
	clock := testfixtures.NewClock(testfixtures.ReferenceTime())
	return NewSchedulingServiceWithLogger(b, b, b, cache, DefaultLeadTimes, clock.NowFunc(), quietLogger())
}
