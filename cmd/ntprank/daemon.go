package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"syscall"

	"github.com/sevlyar/go-daemon"
	"github.com/timekit-kr/ntprank/pkg/ntprank"
)

const daemonName = "ntprankd"
const daemonSocket = "/tmp/ntprankd.sock"

var daemonCtx = &daemon.Context{
	PidFileName: fmt.Sprintf("/var/run/%s.pid", daemonName),
	PidFilePerm: 0644,
	LogFileName: fmt.Sprintf("/var/log/%s.log", daemonName),
	LogFilePerm: 0640,
	WorkDir:     "./",
	Umask:       027,
	Args:        append([]string{daemonName}, os.Args[1:]...),
}

func handleDaemonCommand(config ntprank.Config, okRate float64, port string) {
	d, err := daemonCtx.Reborn()
	if err != nil {
		if errors.Is(err, daemon.ErrWouldBlock) {
			killDaemon()
			fmt.Println("Successfully stopped ntprank daemon.")
			return
		}
		log.Fatal("Unable to run: ", err)
	}
	if d != nil {
		fmt.Printf("Daemon process (%s, %d) started successfully.\n", daemonName, d.Pid)
		return
	}
	defer daemonCtx.Release()

	log.Print("- - - - - - - - - - - - - - -")
	log.Print("daemon started ", os.Args)

	monitor := &ntprank.Monitor{
		Config:        config,
		RequireOKRate: okRate,
		Querier:       &ntprank.Client{Port: port},
	}
	server := &ntprank.RPCServer{Socket: daemonSocket, Monitor: monitor}
	go server.Listen()

	if err := monitor.Run(context.Background()); err != nil {
		log.Fatal(err)
	}
}

func killDaemon() {
	daemon, err := daemonCtx.Search()
	if err != nil {
		log.Fatalf("Error finding daemon: %v", err)
	}

	err = syscall.Kill(daemon.Pid, syscall.SIGTERM)
	if err != nil {
		log.Fatal("Couldn't stop ntprank daemon.")
	}
}
