package data

import (
	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/zhujingtong/app/display/internal/conf"
	"github.com/iWorld-y/zhujingtong/app/planner/pkg/storage"
)

type Data struct {
	store storage.Store
}

func NewData(c *conf.Data, logger log.Logger) (*Data, func(), error) {
	var driver, source string
	if c != nil && c.Database != nil {
		driver, source = c.Database.Driver, c.Database.Source
	}
	store, err := storage.Open(driver, source)
	if err != nil {
		return nil, nil, err
	}
	log.NewHelper(logger).Infof("report storage opened: %s", storageName(driver))

	cleanup := func() {
		log.NewHelper(logger).Info("closing the data resources")
		store.Close()
	}
	return &Data{store: store}, cleanup, nil
}

func storageName(driver string) string {
	if driver == "" {
		return storage.DriverMemory
	}
	return driver
}
