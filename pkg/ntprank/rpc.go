package ntprank

import (
	"errors"
	"log"
	"net"
	"net/rpc"
	"os"
)

type RPCServer struct {
	Socket  string
	Monitor *Monitor
}

func (s *RPCServer) Listen() {
	rpc.Register(s)
	err := os.Remove(s.Socket)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatal("bind error:", err)
	}
	l, e := net.Listen("unix", s.Socket)
	if e != nil {
		log.Fatal("listen error:", e)
	}

	log.Println("RPC listening on", s.Socket)

	for {
		rpc.Accept(l)
	}
}

func (s *RPCServer) FetchReport(args int, reply *Report) error {
	*reply = s.Monitor.Snapshot()
	info("Fetched report:", len(reply.Ranked), "ranked servers")
	return nil
}
