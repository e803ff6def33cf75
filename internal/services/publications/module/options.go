package module

import (
	"lexflow/internal/adapters/portal"
	"lexflow/internal/platform/config"
	"lexflow/internal/services/publications/service"
)

// FromConfig reads PORTAL_* values from process config/env
func FromConfig(cfg config.Conf) service.Config {
	pc := cfg.Prefix("PORTAL_")
	return service.Config{
		Portal: portal.Config{
			TargetURL:    pc.MayString("TARGET_URL", portal.DefaultTargetURL),
			Headless:     pc.MayBool("HEADLESS", false),
			LoginTimeout: pc.MayDuration("LOGIN_TIMEOUT", 0),
			LoginPoll:    pc.MayDuration("LOGIN_POLL", 0),
			LoginSettle:  pc.MayDuration("LOGIN_SETTLE", 0),
			SearchWait:   pc.MayDuration("SEARCH_WAIT", 0),
			SearchSettle: pc.MayDuration("SEARCH_SETTLE", 0),
			DetailWait:   pc.MayDuration("DETAIL_WAIT", 0),
		},
		StateDir: pc.MayString("STATE_DIR", "data"),
	}
}
