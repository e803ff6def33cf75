package service

import (
	"context"

	"lexflow/internal/adapters/portal"
)

// portalFetcher runs one full browser pass against the portal
// Each Fetch owns its browser process and always releases it
type portalFetcher struct {
	cfg      portal.Config
	sessions *portal.SessionStore
}

func (f *portalFetcher) Fetch(ctx context.Context) ([]portal.RawNotice, error) {
	drv := portal.New(f.sessions, f.cfg)
	if err := drv.Open(ctx); err != nil {
		return nil, err
	}
	defer drv.Close()

	if err := drv.Navigate(ctx); err != nil {
		return nil, err
	}
	if err := drv.Search(ctx); err != nil {
		return nil, err
	}
	return drv.Collect(ctx)
}
