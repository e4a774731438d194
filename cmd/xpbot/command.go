package main

import "github.com/urfave/cli/v2"

func (s *srv) loadApp() {
	s.app = cli.NewApp()
	s.app.Action = cli.ShowAppHelp
	s.app.Name = "xpbot"
	s.app.Usage = "XP, levels and referrals for group chats"
	s.app.Before = s.before
	s.app.Commands = []*cli.Command{
		{
			Action:      s.startApi,
			Name:        "api",
			Usage:       "Start service api",
			Category:    "Api",
			Description: `Serves the operations called by the bot layer.`,
		},
		{
			Action:      s.startSubscriber,
			Name:        "subscriber",
			Usage:       "Start service subscriber",
			Category:    "Worker",
			Description: `Consumes chat events from the message queue.`,
		},
		{
			Action:      s.startCron,
			Name:        "cron",
			Usage:       "Start cron jobs",
			Category:    "Worker",
			Description: `Publishes daily reports and writes daily backups.`,
		},
		{
			Action:      s.startMigrate,
			Name:        "migrate",
			Usage:       "Migrate database",
			Category:    "Tool",
			Description: `Creates or updates every table.`,
		},
		{
			Action:      s.startSeed,
			Name:        "seed",
			Usage:       "Seed administrators and keyword rules",
			Category:    "Tool",
			Description: `Inserts the initial administrators and the keyword rules of the config file.`,
		},
	}
}
