package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/chzyer/readline"
)

type request struct {
	JSONRPC string        `json:"jsonrpc"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
	ID      int           `json:"id"`
}

type response struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result"`
	ID      int             `json:"id"`
	Error   *rpcError       `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type client struct {
	url    string
	nextID int
}

func (c *client) call(method string, params ...interface{}) (json.RawMessage, error) {
	c.nextID++
	if params == nil {
		params = []interface{}{}
	}
	payload, err := json.Marshal(request{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
		ID:      c.nextID,
	})
	if err != nil {
		return nil, err
	}

	resp, err := http.Post(c.url, "application/json", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var r response
	if err := json.Unmarshal(body, &r); err != nil {
		return nil, fmt.Errorf("bad response: %w", err)
	}
	if r.Error != nil {
		return nil, fmt.Errorf("rpc error %d: %s", r.Error.Code, r.Error.Message)
	}
	return r.Result, nil
}

func printResult(raw json.RawMessage) {
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, raw, "", "  "); err != nil {
		fmt.Println(string(raw))
		return
	}
	fmt.Println(pretty.String())
}

const helpText = `commands:
  info                         faucet state and constants
  token                        token state
  claim <addr>                 request tokens for address
  can <addr>                   check claim eligibility
  allowance <addr>             remaining lifetime allowance
  wait <addr>                  seconds until next claim
  balance <addr>               token balance
  supply                       token total supply
  pause <admin> on|off         flip the pause switch
  admin <admin> <new>          transfer admin rights
  create [pass]                create a dev account
  restore <mnemonic words...>  restore a dev account
  exit                         quit`

func runCommand(c *client, line string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return
	}

	var (
		raw json.RawMessage
		err error
	)

	switch fields[0] {
	case "help":
		fmt.Println(helpText)
		return
	case "info":
		raw, err = c.call("faucet.info")
	case "token":
		raw, err = c.call("token.info")
	case "claim":
		if len(fields) != 2 {
			err = fmt.Errorf("usage: claim <addr>")
			break
		}
		raw, err = c.call("faucet.request", fields[1])
	case "can":
		if len(fields) != 2 {
			err = fmt.Errorf("usage: can <addr>")
			break
		}
		raw, err = c.call("faucet.canClaim", fields[1])
	case "allowance":
		if len(fields) != 2 {
			err = fmt.Errorf("usage: allowance <addr>")
			break
		}
		raw, err = c.call("faucet.remainingAllowance", fields[1])
	case "wait":
		if len(fields) != 2 {
			err = fmt.Errorf("usage: wait <addr>")
			break
		}
		raw, err = c.call("faucet.timeUntilNextClaim", fields[1])
	case "balance":
		if len(fields) != 2 {
			err = fmt.Errorf("usage: balance <addr>")
			break
		}
		raw, err = c.call("token.balanceOf", fields[1])
	case "supply":
		raw, err = c.call("token.totalSupply")
	case "pause":
		if len(fields) != 3 || (fields[2] != "on" && fields[2] != "off") {
			err = fmt.Errorf("usage: pause <admin> on|off")
			break
		}
		raw, err = c.call("faucet.setPaused", fields[1], fields[2] == "on")
	case "admin":
		if len(fields) != 3 {
			err = fmt.Errorf("usage: admin <admin> <new>")
			break
		}
		raw, err = c.call("faucet.transferAdmin", fields[1], fields[2])
	case "create":
		pass := ""
		if len(fields) > 1 {
			pass = fields[1]
		}
		raw, err = c.call("account.create", pass)
	case "restore":
		if len(fields) < 2 {
			err = fmt.Errorf("usage: restore <mnemonic words...>")
			break
		}
		raw, err = c.call("account.restore", strings.Join(fields[1:], " "), "")
	default:
		err = fmt.Errorf("unknown command %q, try help", fields[0])
	}

	if err != nil {
		fmt.Println("error:", err)
		return
	}
	printResult(raw)
}

func main() {
	urlFlag := flag.String("url", "http://localhost:1337", "dripnet rpc endpoint")
	flag.Parse()

	c := &client{url: *urlFlag}

	rl, err := readline.New("dripnet> ")
	if err != nil {
		panic(err)
	}
	defer rl.Close()

	fmt.Println("dripnet console, type help for commands")
	for {
		line, err := rl.Readline()
		if err != nil { // io.EOF or interrupt
			return
		}
		line = strings.TrimSpace(line)
		if line == "exit" || line == "quit" {
			return
		}
		runCommand(c, line)
	}
}
