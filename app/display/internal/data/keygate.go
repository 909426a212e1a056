package data

import (
	"context"
	"strings"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/editorial_lens/app/display/internal/repo"
)

type keyGate struct {
	data *Data
	log  *log.Helper
}

func NewKeyGate(data *Data, logger log.Logger) repo.KeyGate {
	return &keyGate{
		data: data,
		log:  log.NewHelper(logger),
	}
}

func (g *keyGate) HasSelectedAPIKey(ctx context.Context) (bool, error) {
	key, err := g.data.APIKey(ctx)
	if err != nil {
		return false, err
	}
	return key != "", nil
}

func (g *keyGate) OpenSelectKey(ctx context.Context, apiKey string) error {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return errors.BadRequest("API_KEY_EMPTY", "api key is empty")
	}
	g.data.setAPIKey(apiKey)
	g.log.Info("api key selected")
	return nil
}
