package main

import (
	"github.com/rs/zerolog/log"

	"github.com/dfryer1193/postbrowser/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		log.Fatal().Err(err).Msg("postbrowser failed")
	}
}
