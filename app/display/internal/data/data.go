package data

import (
	"context"
	"os"
	"sync"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/editorial_lens/app/display/internal/conf"
	"github.com/iWorld-y/editorial_lens/app/editorial/pkg/config"
)

// Data 持有会话的 API Key，显式注入给网关与 Key 选择页
type Data struct {
	mu     sync.RWMutex
	apiKey string
}

func NewData(c *conf.Data, logger log.Logger) (*Data, func(), error) {
	d := &Data{}
	if c != nil && c.Key != nil {
		d.apiKey = c.Key.ApiKey
		if d.apiKey == "" {
			env := c.Key.Env
			if env == "" {
				env = config.APIKeyEnv
			}
			d.apiKey = os.Getenv(env)
		}
	} else {
		d.apiKey = os.Getenv(config.APIKeyEnv)
	}

	cleanup := func() {
		log.NewHelper(logger).Info("closing the data resources")
		d.setAPIKey("")
	}
	return d, cleanup, nil
}

// APIKey 实现 gateway.KeySource，每次调用都读取最新选择的 Key
func (d *Data) APIKey(context.Context) (string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.apiKey, nil
}

func (d *Data) setAPIKey(key string) {
	d.mu.Lock()
	d.apiKey = key
	d.mu.Unlock()
}
