// Package sh is the interactive shell of the central.
package sh

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/abiosoft/ishell"
	"github.com/golang/glog"

	"github.com/robotalks/wearable/pkg/central"
	"github.com/robotalks/wearable/pkg/env"
	"github.com/robotalks/wearable/pkg/link"
	"github.com/robotalks/wearable/pkg/pedometer"
)

// Shell provides ishell backed interactive shell.
type Shell struct {
	Interactive bool
	OutputJSON  bool
	AutoConnect bool

	Shell    *ishell.Shell
	Config   *env.Config
	Conn     *Conn
	Recorder *central.Recorder
	// Pedometer configures the steps command, nil uses the defaults.
	Pedometer *pedometer.Config
}

// Conn is an established connection to the device.
type Conn struct {
	Ctx     context.Context
	Cancel  func()
	Central *central.Central
	Link    *env.Link
	// Period is the selected period index, -1 if never selected.
	Period int
}

const (
	shellKey          = "$shell"
	unconnectedPrompt = "[none] > "
)

var (
	evalOnly   bool
	outputJSON bool
	maxRecords = central.DefaultMaxLen

	commands = []*ishell.Cmd{
		&ConnectCmd,
		&DisconnectCmd,
		&PeriodCmd,
		&SendCmd,
		&ReadCmd,
		&RecordCmd,
		&StatusCmd,
		&StepsCmd,
	}
)

func init() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
	flag.BoolVar(&outputJSON, "json", outputJSON, "Print output in JSON.")
	flag.IntVar(&maxRecords, "max-records", maxRecords, "Capacity of the record buffer.")
}

// AddCmds adds more commands, used during init.
func AddCmds(cmds ...*ishell.Cmd) {
	commands = append(commands, cmds...)
}

// New creates a new shell.
func New(conf *env.Config) *Shell {
	s := &Shell{
		Interactive: !evalOnly,
		OutputJSON:  outputJSON,

		Shell:    ishell.New(),
		Config:   conf,
		Recorder: central.NewRecorder(maxRecords),
	}
	if conf != nil {
		s.Pedometer = conf.Pedometer
	}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(unconnectedPrompt)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// MustBeConnected wraps command func requires a connection.
func MustBeConnected(fn func(c *ishell.Context)) func(c *ishell.Context) {
	return func(c *ishell.Context) {
		if ShellFrom(c).Conn == nil {
			c.Err(fmt.Errorf("not connected"))
			return
		}
		fn(c)
	}
}

// WithAutoConnect sets AutoConnect.
func (s *Shell) WithAutoConnect(en bool) *Shell {
	s.AutoConnect = en
	return s
}

// Connect opens the link and performs the handshake.
func (s *Shell) Connect(peripheral string) error {
	conf := *s.Config
	conf.Peripheral = peripheral
	cent, l, err := conf.NewCentral()
	if err != nil {
		return err
	}
	conn := &Conn{Central: cent, Link: l, Period: -1}
	conn.Ctx, conn.Cancel = context.WithCancel(context.Background())
	go l.Run(conn.Ctx)
	if err := cent.Connect(conn.Ctx); err != nil {
		conn.Cancel()
		cent.Close()
		return err
	}
	s.Disconnect()
	s.Conn = conn
	name := peripheral
	if name == "" {
		name = s.Config.Link
	}
	s.Shell.SetPrompt(fmt.Sprintf("[%s] > ", name))
	return nil
}

// Disconnect disconnects the device.
func (s *Shell) Disconnect() {
	if s.Conn != nil {
		if err := s.Conn.Central.Close(); err != nil {
			glog.Warningf("close: %v", err)
		}
		s.Conn.Cancel()
		s.Conn = nil
		s.Shell.SetPrompt(unconnectedPrompt)
	}
}

// Print prints v as JSON or in the text form.
func (s *Shell) Print(c *ishell.Context, v interface{}, text string) {
	if s.OutputJSON {
		out, err := json.Marshal(v)
		if err != nil {
			c.Err(err)
			return
		}
		c.Println(string(out))
		return
	}
	c.Println(text)
}

// Run runs the shell.
func (s *Shell) Run(args ...string) {
	if s.AutoConnect && s.Config.Peripheral != "" {
		if s.Interactive {
			s.Shell.Printf("Connecting %s ...\n", s.Config.Peripheral)
		}
		if err := s.Connect(s.Config.Peripheral); err != nil {
			glog.Exitf("connect %s failed: %v", s.Config.Peripheral, err)
		}
	}
	defer s.Disconnect()

	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			glog.Exit(err)
		}
		return
	}
	if s.Interactive {
		s.Shell.Run()
		return
	}
	glog.Exit("command expected")
}

func parsePeriod(arg string) (int, error) {
	index, err := strconv.Atoi(arg)
	if err != nil || index < 0 || index >= len(link.DefaultPeriods) {
		return 0, fmt.Errorf("period must be 0-%d", len(link.DefaultPeriods)-1)
	}
	return index, nil
}

var (
	// ConnectCmd connects the device.
	ConnectCmd = ishell.Cmd{
		Name:    "connect",
		Aliases: []string{"c"},
		Help:    "[PERIPHERAL-MAC]",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			peripheral := s.Config.Peripheral
			if len(c.Args) > 0 {
				peripheral = c.Args[0]
			}
			if err := s.Connect(peripheral); err != nil {
				c.Err(err)
				return
			}
			c.Println("connected")
		},
	}

	// DisconnectCmd disconnects the device.
	DisconnectCmd = ishell.Cmd{
		Name:    "disconnect",
		Aliases: []string{"d"},
		Func: func(c *ishell.Context) {
			ShellFrom(c).Disconnect()
		},
	}

	// PeriodCmd selects the sampling period.
	PeriodCmd = ishell.Cmd{
		Name:    "period",
		Aliases: []string{"p"},
		Help:    "INDEX (0: 10ms, 1: 20ms, 2: 200ms, 3: 500ms, 4: 10s)",
		Func: MustBeConnected(func(c *ishell.Context) {
			if len(c.Args) != 1 {
				c.Err(fmt.Errorf("period index expected"))
				return
			}
			index, err := parsePeriod(c.Args[0])
			if err != nil {
				c.Err(err)
				return
			}
			conn := ShellFrom(c).Conn
			if err := conn.Central.SelectPeriod(conn.Ctx, index); err != nil {
				c.Err(err)
				return
			}
			conn.Period = index
		}),
	}

	// SendCmd sends a line to show on the display of the device.
	SendCmd = ishell.Cmd{
		Name: "send",
		Help: "TEXT",
		Func: MustBeConnected(func(c *ishell.Context) {
			msg := strings.Join(c.Args, " ")
			if !strings.HasSuffix(msg, string(link.Sentinel)) {
				msg += string(link.Sentinel)
			}
			if err := ShellFrom(c).Conn.Central.Write(msg); err != nil {
				c.Err(err)
			}
		}),
	}

	// ReadCmd prints everything received.
	ReadCmd = ishell.Cmd{
		Name:    "read",
		Aliases: []string{"r"},
		Func: MustBeConnected(func(c *ishell.Context) {
			conn := ShellFrom(c).Conn
			msg, err := conn.Central.ReadLines(conn.Ctx)
			if err != nil {
				c.Err(err)
				return
			}
			ShellFrom(c).Print(c, msg, msg)
		}),
	}

	// RecordCmd records telemetry and optionally saves to a file.
	RecordCmd = ishell.Cmd{
		Name: "record",
		Help: "COUNT [FILE]",
		Func: MustBeConnected(func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("count expected"))
				return
			}
			count, err := strconv.Atoi(c.Args[0])
			if err != nil || count <= 0 {
				c.Err(fmt.Errorf("invalid count %q", c.Args[0]))
				return
			}
			s := ShellFrom(c)
			s.Recorder.Reset()
			err = s.Conn.Central.Records(s.Conn.Ctx, count, func(rec link.Record) {
				s.Recorder.Add(rec)
				if !s.OutputJSON {
					c.Println(strings.TrimSuffix(rec.String(), string(link.Sentinel)))
				}
			})
			if err != nil {
				c.Err(err)
			}
			if s.OutputJSON {
				s.Print(c, s.Recorder.Records(), "")
			}
			if len(c.Args) > 1 {
				if err := s.Recorder.SaveFile(c.Args[1]); err != nil {
					c.Err(err)
					return
				}
				c.Printf("%d records saved to %s\n", s.Recorder.Len(), c.Args[1])
			}
		}),
	}

	// StatusCmd shows the connection status.
	StatusCmd = ishell.Cmd{
		Name: "status",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			st := Status{Link: s.Config.Link, Recorded: s.Recorder.Len(), Period: -1}
			if conn := s.Conn; conn != nil {
				st.Connected, st.Peripheral = true, conn.Central.Peripheral
				st.Period = conn.Period
			}
			s.Print(c, st, st.String())
		},
	}

	// StepsCmd counts steps in recorded or saved records.
	StepsCmd = ishell.Cmd{
		Name: "steps",
		Help: "[FILE]",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			var file string
			if len(c.Args) > 0 {
				file = c.Args[0]
			}
			count, err := s.CountSteps(file)
			if err != nil {
				c.Err(err)
				return
			}
			s.Print(c, count, count.String())
		},
	}
)

// StepCount is the output of the steps command.
type StepCount struct {
	Records    int     `json:"records"`
	SampleRate float64 `json:"sample_rate"`
	Steps      int     `json:"steps"`
	Peaks      []int   `json:"peaks,omitempty"`
}

func (s StepCount) String() string {
	return fmt.Sprintf("steps=%d records=%d rate=%.1fHz", s.Steps, s.Records, s.SampleRate)
}

// CountSteps counts steps in the records loaded from file, or in the
// recorded ones if file is empty.
func (s *Shell) CountSteps(file string) (StepCount, error) {
	rec := s.Recorder
	if file != "" {
		rec = central.NewRecorder(0)
		if err := rec.LoadFile(file); err != nil {
			return StepCount{}, err
		}
	}
	if rec.Len() == 0 {
		return StepCount{}, fmt.Errorf("no records")
	}
	conf := s.Pedometer
	if conf == nil {
		conf = pedometer.Default()
	}
	res := conf.Count(rec.Records())
	return StepCount{
		Records:    rec.Len(),
		SampleRate: res.SampleRate,
		Steps:      res.Steps,
		Peaks:      res.Peaks,
	}, nil
}

// Status is the output of the status command.
type Status struct {
	Link       string `json:"link"`
	Peripheral string `json:"peripheral,omitempty"`
	Connected  bool   `json:"connected"`
	Period     int    `json:"period"`
	Recorded   int    `json:"recorded"`
}

func (s Status) String() string {
	period := "unknown"
	if s.Period >= 0 {
		period = link.Duration(link.DefaultPeriods[s.Period]).String()
	}
	return fmt.Sprintf("link=%s peripheral=%q connected=%v period=%s recorded=%d",
		s.Link, s.Peripheral, s.Connected, period, s.Recorded)
}

// Main is a helper to provide a single call in main.
func Main() {
	flag.Parse()
	conf, err := env.NewConfig()
	if err != nil {
		glog.Exit(err)
	}
	New(conf).WithAutoConnect(true).Run(flag.Args()...)
}
