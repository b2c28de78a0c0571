package app

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"

	"github.com/pstuifzand/tui-listbind/internal/binding"
	"github.com/pstuifzand/tui-listbind/internal/config"
	"github.com/pstuifzand/tui-listbind/internal/history"
	"github.com/pstuifzand/tui-listbind/internal/metrics"
	"github.com/pstuifzand/tui-listbind/internal/model"
	"github.com/pstuifzand/tui-listbind/internal/plan"
	"github.com/pstuifzand/tui-listbind/internal/socket"
	"github.com/pstuifzand/tui-listbind/internal/storage"
	"github.com/pstuifzand/tui-listbind/internal/table"
	"github.com/pstuifzand/tui-listbind/internal/theme"
	"github.com/pstuifzand/tui-listbind/internal/ui"
)

// Mode is the input mode shown in the status line
type Mode string

const (
	NormalMode Mode = "NORMAL"
	InputMode  Mode = "INPUT"
)

// Options configures a new App
type Options struct {
	// FilePath is a JSON list, or a markdown or text file to import
	FilePath string
	Config   *config.Config
	Theme    *theme.Theme
	Log      logrus.FieldLogger
	Metrics  *metrics.Collectors
	// Socket accepts add_row, remove_row and list commands from other processes
	Socket bool
	// Screen replaces the terminal, for tests
	Screen tcell.Screen
}

// App is the main application controller
type App struct {
	screen *ui.Screen
	log    logrus.FieldLogger
	cfg    *config.Config

	doc       *storage.Document
	store     *storage.JSONStore
	backups   *storage.BackupManager
	sessionID string
	// restoredFrom is the last backup restored in this session
	restoredFrom string

	list   *ui.ListView
	mgr    *table.Manager
	help   *ui.HelpScreen
	plans  *ui.PlanView
	prompt *ui.Prompt
	status *ui.StatusLog

	keybindings        []KeyBinding
	pendingKeybindings []PendingKeyBinding
	pendingKey         rune
	onPrompt           func(text string)

	filter        string
	filterHistory *history.History
	histories     *history.Manager
	submitted model.Snapshot
	lastPlan  *plan.Plan
	stale     bool

	server   *socket.Server
	dirty    bool
	saveTime time.Time
	quit     bool
}

// New creates a new App
func New(opts Options) (*App, error) {
	log := opts.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	th := opts.Theme
	if th == nil {
		th = theme.LoadThemeOrDefault(cfg.Theme)
	}

	policy, err := cfg.Policy()
	if err != nil {
		return nil, err
	}
	anim, err := cfg.AnimationStyles()
	if err != nil {
		return nil, err
	}

	var screen *ui.Screen
	if opts.Screen != nil {
		screen, err = ui.NewScreenFrom(opts.Screen, th)
	} else {
		screen, err = ui.NewScreen(th)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create screen: %w", err)
	}

	store, doc, err := openDocument(opts.FilePath)
	if err != nil {
		screen.Close()
		return nil, fmt.Errorf("failed to load list: %w", err)
	}
	if len(doc.Sections) == 0 {
		doc = sampleDocument(doc.Title)
	}

	a := &App{
		screen:    screen,
		log:       log,
		cfg:       cfg,
		doc:       doc,
		store:     store,
		sessionID: newSessionID(),
		help:      ui.NewHelpScreen(),
		plans:     ui.NewPlanView(),
		prompt:    ui.NewPrompt(),
		status:    ui.NewStatusLog(50, 3*time.Second),
		saveTime:  time.Now(),
	}
	if bm, err := storage.NewBackupManager(storage.GetBackupDir()); err != nil {
		log.WithError(err).Warn("backups disabled")
	} else {
		a.backups = bm
	}
	a.filterHistory = history.New(nil, history.DefaultSize)
	if hm, err := history.NewManager(""); err != nil {
		log.WithError(err).Warn("filter history disabled")
	} else {
		a.histories = hm
		if entries, err := hm.Load(filterHistoryFile); err == nil {
			a.filterHistory = history.New(entries, history.DefaultSize)
		}
	}

	a.list = ui.NewListView(screen,
		ui.WithListLogger(log),
		ui.WithFlashDuration(cfg.AnimationDuration()),
		ui.WithScheduler(a.post),
	)
	a.mgr = table.New(a.list, rowRules(),
		table.WithLogger(log),
		table.WithMetrics(opts.Metrics),
		table.WithPolicy(policy),
		table.WithAnimationStyles(anim),
	)
	a.mgr.SetHeaderRules(headerRules()...)
	a.mgr.SetFooterRules(footerRules()...)
	a.list.DefineTemplate(checkedTemplate, func() binding.View { return ui.NewTextCell() })
	a.list.SetDataSource(a.mgr)
	a.mgr.Listen("app", a.handleEvent)

	a.keybindings = a.InitializeKeybindings()
	a.pendingKeybindings = a.InitializePendingKeybindings()
	a.help.SetKeybindings(a.helpEntries())

	if opts.Socket {
		server, err := socket.NewServer(os.Getpid(), log)
		if err != nil {
			log.WithError(err).Warn("socket server disabled")
		} else {
			server.Start()
			a.server = server
		}
	}

	a.refresh()
	return a, nil
}

func (a *App) post(fn func()) {
	if err := a.screen.Post(fn); err != nil {
		a.log.WithError(err).Warn("failed to post callback")
	}
}

// Run starts the main event loop
func (a *App) Run() error {
	defer a.Close()

	eventChan := make(chan tcell.Event)
	go func() {
		for {
			event := a.screen.PollEvent()
			if event == nil {
				close(eventChan)
				return
			}
			eventChan <- event
		}
	}()

	var socketChan <-chan socket.Message
	if a.server != nil {
		socketChan = a.server.Messages()
	}

	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for !a.quit {
		select {
		case ev, ok := <-eventChan:
			if !ok {
				return nil
			}
			a.handleRawEvent(ev)
		case msg := <-socketChan:
			a.handleSocketMessage(msg)
		case <-ticker.C:
			a.tick()
		}
	}
	return nil
}

// tick retries reloads rejected while a reconciliation was running, saves
// dirty documents every five seconds and redraws
func (a *App) tick() {
	if a.stale && a.mgr.State() == table.StateIdle {
		a.refresh()
	}
	if a.dirty && a.store.FilePath != "" && time.Since(a.saveTime) > 5*time.Second {
		if err := a.Save(); err != nil {
			a.status.Error("Failed to save: " + err.Error())
		}
	}
	a.render()
}

// Close stops the socket server and closes the screen
func (a *App) Close() error {
	if a.server != nil {
		a.server.Stop()
	}
	if a.screen != nil {
		return a.screen.Close()
	}
	return nil
}

// render renders the current state to the screen
func (a *App) render() {
	a.screen.Clear()
	width, height := a.screen.Size()

	title := " " + a.doc.Title + " "
	if a.filter != "" {
		title += "[" + a.filter + "] "
	}
	if a.dirty {
		title += "(modified) "
	}
	a.screen.Fill(0, 0, width, 1, a.screen.BackgroundStyle())
	a.screen.DrawStringLimited(0, 0, title, width, a.screen.HeaderStyle())

	listHeight := height - 2
	if a.prompt.IsActive() {
		listHeight--
		a.prompt.Render(a.screen, height-2)
	}
	a.list.Render(0, 1, width, listHeight)

	ui.RenderStatusLine(a.screen, height-1, string(a.mode()), a.status)
	a.plans.Render(a.screen)
	a.help.Render(a.screen)
	a.screen.Show()
}

func (a *App) mode() Mode {
	if a.prompt.IsActive() {
		return InputMode
	}
	return NormalMode
}

// handleRawEvent processes raw input events
func (a *App) handleRawEvent(ev tcell.Event) {
	if ui.RunCallback(ev) {
		return
	}

	switch ev := ev.(type) {
	case *tcell.EventResize:
		a.screen.Sync()
	case *tcell.EventKey:
		a.handleKey(ev)
	}
}

func (a *App) handleKey(ev *tcell.EventKey) {
	switch {
	case a.prompt.IsActive():
		switch a.prompt.HandleKey(ev) {
		case ui.PromptDone:
			if fn := a.onPrompt; fn != nil {
				a.onPrompt = nil
				fn(a.prompt.Text())
			}
		case ui.PromptCancelled:
			a.onPrompt = nil
		}
		return
	case a.plans.IsVisible():
		a.plans.HandleKeyEvent(ev)
		return
	case a.help.IsVisible():
		if ev.Key() == tcell.KeyEscape || ev.Rune() == '?' {
			a.help.Toggle()
		}
		return
	}

	switch ev.Key() {
	case tcell.KeyDown:
		a.list.MoveCursor(1)
	case tcell.KeyUp:
		a.list.MoveCursor(-1)
	case tcell.KeyPgDn:
		a.list.MoveCursor(a.screen.GetHeight() / 2)
	case tcell.KeyPgUp:
		a.list.MoveCursor(-a.screen.GetHeight() / 2)
	case tcell.KeyCtrlS:
		if err := a.Save(); err != nil {
			a.status.Error("Failed to save: " + err.Error())
		} else {
			a.status.Info("Saved")
		}
	case tcell.KeyEnter:
		a.invokeAction(actionOpen)
	case tcell.KeyEscape:
		if a.filter != "" {
			a.setFilter("")
		} else {
			a.list.ClearSelection()
		}
	case tcell.KeyRune:
		a.handleRune(ev.Rune())
	}
}

// startPrompt asks for a line of input and calls done with it on Enter
func (a *App) startPrompt(label, initial string, done func(text string)) {
	a.prompt.Start(label, initial)
	a.onPrompt = done
}

// Save writes the list to disk, keeping a backup of the saved state
func (a *App) Save() error {
	if a.store.FilePath == "" {
		return errors.New("no file name")
	}
	if err := a.store.Save(a.doc); err != nil {
		return err
	}
	if a.backups != nil {
		if _, err := a.backups.CreateBackup(a.doc, a.store.FilePath, a.sessionID); err != nil {
			a.log.WithError(err).Warn("backup failed")
		}
	}
	a.dirty = false
	a.saveTime = time.Now()
	return nil
}

// Quit signals the app to quit
func (a *App) Quit() {
	a.quit = true
}
