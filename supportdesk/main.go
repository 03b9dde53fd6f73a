package main

import (
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/camsops/supportdesk-app/supportdesk/supportdeskcli"
)

func main() {
	if err := supportdeskcli.GetApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
