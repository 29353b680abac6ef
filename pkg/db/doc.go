// Package db opens the GORM handle shared by the petition stores.
//
// Connect wraps gorm.Open over the pgx-backed postgres driver with simple
// protocol enabled, so the handle also works behind transaction poolers. The
// pool is capped through Config; the server uses 20 connections recycled
// every 30 minutes.
//
//	database, err := db.Connect(db.Config{URL: cfg.DatabaseURL, MaxOpenConns: 20})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// An empty Config.URL falls back to DATABASE_URL. SQL statements are logged
// only when PETITION_LOG_LEVEL=debug.
package db
