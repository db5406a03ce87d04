package ansible

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/secrethub/ansible-secrethub/internal/config"
	"github.com/secrethub/ansible-secrethub/internal/logger"
)

// Run executes a module as an Ansible binary module process and exits.
func Run(m Module) {
	os.Exit(Execute(m, os.Args, os.Stdout))
}

// Execute runs the full module lifecycle against explicit arguments and
// output, and returns the process exit code. Run is the thin entrypoint;
// tests call Execute directly.
func Execute(m Module, argv []string, stdout io.Writer) (exit int) {
	log := DebugLogger().WithComponent(m.Metadata().Name)

	// A panic must still produce a result document, otherwise Ansible
	// reports an unparseable module instead of the actual problem.
	defer func() {
		if r := recover(); r != nil {
			log.Error(fmt.Errorf("%v", r), "module panicked")
			writeResponse(stdout, Fail(fmt.Sprintf("module panicked: %v", r)))
			exit = 1
		}
	}()

	if len(argv) != 2 {
		writeResponse(stdout, Fail("expected exactly one argument: the path to the module args file"))
		return 1
	}

	req, err := ParseArgsFile(argv[1])
	if err != nil {
		writeResponse(stdout, FailErr(err))
		return 1
	}

	ctx := context.Background()

	var resp *Response
	if req.CheckMode {
		cm, ok := m.(CheckModer)
		if !ok {
			writeResponse(stdout, &Response{
				Skipped: true,
				Msg:     fmt.Sprintf("remote module (%s) does not support check mode", m.Metadata().Name),
			})
			return 0
		}
		resp, err = cm.CheckMode(ctx, req)
	} else {
		resp, err = m.Run(ctx, req)
	}
	if err != nil {
		log.Error(err, "module run failed")
		writeResponse(stdout, FailErr(err))
		return 1
	}

	writeResponse(stdout, resp)
	if resp.Failed {
		return 1
	}
	return 0
}

// DebugLogger returns the logger for module processes: silent unless
// SECRETHUB_ANSIBLE_DEBUG is set, and always on stderr so stdout carries
// nothing but the result document.
func DebugLogger() *logger.Logger {
	if os.Getenv(config.EnvDebug) == "" {
		return logger.Nop()
	}
	log, err := logger.New(logger.Options{Level: "debug"})
	if err != nil {
		return logger.Nop()
	}
	return log
}

func writeResponse(w io.Writer, resp *Response) {
	data, err := json.Marshal(resp)
	if err != nil {
		fmt.Fprintf(w, `{"failed": true, "changed": false, "msg": "marshaling module response: %s"}`, err)
		return
	}
	fmt.Fprintf(w, "%s\n", data)
}
