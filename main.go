package main

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"runtime"

	"github.com/docker/docker/client"
	"github.com/fatih/color"
	"github.com/go-errors/errors"
	"github.com/integrii/flaggy"
	"github.com/jesseduffield/yaml"
	"github.com/liuwei8809/sysbox-docker-cp/pkg/app"
	"github.com/liuwei8809/sysbox-docker-cp/pkg/commands"
	"github.com/liuwei8809/sysbox-docker-cp/pkg/config"
	"github.com/liuwei8809/sysbox-docker-cp/pkg/utils"
)

var (
	commit      string
	version     = "unversioned"
	date        string
	buildSource = "unknown"

	configFlag     = false
	debuggingFlag  = false
	archiveFlag    = false
	followLinkFlag = false
	srcArg         string
	dstArg         string
)

func main() {
	info := fmt.Sprintf(
		"%s\nDate: %s\nBuildSource: %s\nCommit: %s\nOS: %s\nArch: %s",
		version,
		date,
		buildSource,
		commit,
		runtime.GOOS,
		runtime.GOARCH,
	)

	flaggy.SetName("sysbox-docker-cp")
	flaggy.SetDescription("docker cp for Sysbox containers, with the file ownership fixed up afterwards")
	flaggy.DefaultParser.AdditionalHelpPrepend = "One of SRC_PATH and DEST_PATH must be CONTAINER:PATH"

	flaggy.Bool(&archiveFlag, "a", "archive", "Archive mode (copy all uid/gid information); passed through to docker cp")
	flaggy.Bool(&followLinkFlag, "L", "follow-link", "Always follow symbol link in SRC_PATH; passed through to docker cp")
	flaggy.Bool(&configFlag, "c", "config", "Print the current default config")
	flaggy.Bool(&debuggingFlag, "d", "debug", "a boolean")
	flaggy.AddPositionalValue(&srcArg, "SRC_PATH", 1, false, "Copy source; a host path or CONTAINER:PATH")
	flaggy.AddPositionalValue(&dstArg, "DEST_PATH", 2, false, "Copy destination; a host path or CONTAINER:PATH")
	flaggy.SetVersion(info)

	flaggy.Parse()

	if configFlag {
		var buf bytes.Buffer
		encoder := yaml.NewEncoder(&buf)
		err := encoder.Encode(config.GetDefaultConfig())
		if err != nil {
			log.Fatal(err.Error())
		}
		fmt.Printf("%v\n", buf.String())
		os.Exit(0)
	}

	appConfig, err := config.NewAppConfig("sysbox-docker-cp", version, commit, date, buildSource, debuggingFlag)
	if err != nil {
		log.Fatal(err.Error())
	}

	app, err := app.NewApp(appConfig)
	if err != nil {
		exitOnError(app, err, 1)
	}

	args := []string{}
	if srcArg != "" {
		args = append(args, srcArg)
	}
	if dstArg != "" {
		args = append(args, dstArg)
	}

	op, err := commands.ParseCopyOperation(args, archiveFlag, followLinkFlag, app.Tr)
	if err != nil {
		log.Println(utils.ColoredString(err.Error(), color.FgRed))
		flaggy.ShowHelp(app.Tr.UsageBanner)
		os.Exit(1)
	}

	exitCode, err := app.Copier.Run(context.Background(), op)
	if err != nil {
		exitOnError(app, err, exitCode)
	}

	os.Exit(exitCode)
}

func exitOnError(app *app.App, err error, exitCode int) {
	if errMessage, known := app.KnownError(err); known {
		log.Println(utils.ColoredString(errMessage, color.FgRed))
		os.Exit(1)
	}

	if client.IsErrConnectionFailed(err) {
		log.Println(utils.ColoredString(app.Tr.CannotAccessDockerSocketError, color.FgRed))
		os.Exit(1)
	}

	var complexErr commands.ComplexError
	if errors.As(err, &complexErr) {
		log.Println(utils.ColoredString(complexErr.Message, color.FgRed))
		if exitCode == 0 {
			exitCode = 1
		}
		os.Exit(exitCode)
	}

	newErr := errors.Wrap(err, 0)
	stackTrace := newErr.ErrorStack()
	app.Log.Error(stackTrace)

	log.Fatal(fmt.Sprintf("%s\n\n%s", app.Tr.ErrorOccurred, stackTrace))
}
