package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/wolfman30/clinicdesk-ai/internal/feedback"
	"github.com/wolfman30/clinicdesk-ai/internal/observability/metrics"
	"github.com/wolfman30/clinicdesk-ai/internal/patients"
	"github.com/wolfman30/clinicdesk-ai/pkg/logging"
)

const defaultAssistantName = "ClinicDesk AI"

// EngineConfig toggles optional engine behaviour.
type EngineConfig struct {
	AssistantName string
	// ProbeGeneration checks the generator once per turn and answers
	// inquiries with a visible degraded-mode notice when it is down.
	ProbeGeneration bool
	// FeedbackGeneration phrases feedback replies with the generator
	// instead of the fixed templates.
	FeedbackGeneration bool
}

// EngineDeps are the engine's collaborators. Generator, Alerter, Metrics,
// Logger and Now are optional.
type EngineDeps struct {
	Sessions     SessionStore
	Log          ConversationLog
	Patients     patients.Repository
	Appointments AppointmentStore
	Feedback     FeedbackStore
	Generator    TextGenerator
	Alerter      FeedbackAlerter
	Metrics      *metrics.ConversationMetrics
	Logger       *logging.Logger
	Now          func() time.Time
	Location     *time.Location
}

// Engine runs one chat turn end to end: signals, routing, slot filling and
// the flow handlers.
type Engine struct {
	sessions     SessionStore
	log          ConversationLog
	patients     patients.Repository
	appointments AppointmentStore
	feedback     FeedbackStore
	generator    TextGenerator
	alerter      FeedbackAlerter
	contexts     *PatientContextBuilder
	slots        *SlotFiller
	metrics      *metrics.ConversationMetrics
	logger       *logging.Logger
	tracer       trace.Tracer
	cfg          EngineConfig
}

// turn carries per-message working state through the handlers.
type turn struct {
	sessionID      string
	message        string
	session        *Session
	signals        Signals
	lookback       []string
	phonePatient   *patients.Patient
	generationUp   bool
	urgentFeedback *feedback.Feedback
}

// NewEngine wires an engine. Sessions, Log, Patients, Appointments and
// Feedback are required.
func NewEngine(deps EngineDeps, cfg EngineConfig) *Engine {
	if deps.Sessions == nil || deps.Log == nil {
		panic("conversation: session store and conversation log are required")
	}
	if deps.Patients == nil || deps.Appointments == nil || deps.Feedback == nil {
		panic("conversation: patient, appointment and feedback stores are required")
	}
	if deps.Generator == nil {
		deps.Generator = NoopGenerator{}
	}
	if deps.Logger == nil {
		deps.Logger = logging.Default()
	}
	if cfg.AssistantName == "" {
		cfg.AssistantName = defaultAssistantName
	}
	return &Engine{
		sessions:     deps.Sessions,
		log:          deps.Log,
		patients:     deps.Patients,
		appointments: deps.Appointments,
		feedback:     deps.Feedback,
		generator:    deps.Generator,
		alerter:      deps.Alerter,
		contexts:     NewPatientContextBuilder(deps.Patients, deps.Appointments),
		slots:        NewSlotFiller(deps.Now, deps.Location),
		metrics:      deps.Metrics,
		logger:       deps.Logger,
		tracer:       otel.Tracer("clinicdesk.internal.conversation.engine"),
		cfg:          cfg,
	}
}

// HandleTurn answers one message. An empty SessionID starts a new
// conversation under a freshly minted id returned in the result.
func (e *Engine) HandleTurn(ctx context.Context, req TurnRequest) (*TurnResult, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, ErrInvalidMessage
	}
	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	start := time.Now()
	ctx, span := e.tracer.Start(ctx, "conversation.turn")
	defer span.End()
	span.SetAttributes(attribute.String("clinicdesk.session_id", sessionID))

	generationUp := true
	if e.cfg.ProbeGeneration {
		generationUp = e.generator.Probe(ctx)
	}

	var (
		result    TurnResult
		patientID *int64
		urgent    *feedback.Feedback
	)
	err := e.sessions.Update(ctx, sessionID, func(sess *Session) error {
		t := &turn{
			sessionID:    sessionID,
			message:      message,
			session:      sess,
			generationUp: generationUp,
		}
		t.lookback = e.lookback(ctx, sessionID)
		t.signals = ExtractSignals(message, sess.State)
		if err := e.resolveIdentity(ctx, t); err != nil {
			return err
		}
		e.appendLog(ctx, LogEntry{SessionID: sessionID, PatientID: sess.PatientID, Role: RoleUser, Message: message})

		decision := Route(sess.State, t.signals, message)
		decision.Apply(sess)
		e.metrics.ObserveRoute(string(decision.Rule))
		e.logger.Debug("turn routed",
			"session_id", sessionID,
			"rule", decision.Rule,
			"intent", decision.Intent,
		)

		response, err := e.dispatch(ctx, decision.Intent, t)
		if err != nil {
			return err
		}
		result = TurnResult{SessionID: sessionID, Response: response, Intent: decision.Intent}
		patientID = copyID(sess.PatientID)
		urgent = t.urgentFeedback
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "turn failed")
		e.logger.Error("turn failed", "session_id", sessionID, "error", err)
		return nil, fmt.Errorf("conversation: handle turn: %w", err)
	}

	e.appendLog(ctx, LogEntry{SessionID: sessionID, PatientID: patientID, Role: RoleAssistant, Message: result.Response})
	if urgent != nil {
		e.alertUrgent(ctx, urgent)
	}

	span.SetAttributes(attribute.String("clinicdesk.intent", string(result.Intent)))
	e.metrics.ObserveTurn(string(result.Intent), time.Since(start).Seconds())
	return &result, nil
}

// GenerationAvailable probes the text generator.
func (e *Engine) GenerationAvailable(ctx context.Context) bool {
	return e.generator.Probe(ctx)
}

func (e *Engine) dispatch(ctx context.Context, intent Intent, t *turn) (string, error) {
	switch intent {
	case IntentAppointment:
		return e.handleAppointment(ctx, t)
	case IntentTestResult:
		return e.handleTestResult(ctx, t)
	case IntentFeedback:
		return e.handleFeedback(ctx, t)
	default:
		return e.handleInquiry(ctx, t)
	}
}

// resolveIdentity looks up the phone number in the message, if any, and
// remembers a matching patient on the session.
func (e *Engine) resolveIdentity(ctx context.Context, t *turn) error {
	if !t.signals.Phone {
		return nil
	}
	p, err := e.patients.FindByPhone(ctx, t.signals.PhoneNumber)
	if errors.Is(err, patients.ErrPatientNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("conversation: resolve patient: %w", err)
	}
	t.phonePatient = p
	t.session.PatientID = &p.ID
	return nil
}

func (e *Engine) lookback(ctx context.Context, sessionID string) []string {
	msgs, err := e.log.RecentUserMessages(ctx, sessionID, lookbackTurns)
	if err != nil {
		e.logger.Warn("failed to load recent messages", "session_id", sessionID, "error", err)
		return nil
	}
	return msgs
}

func (e *Engine) appendLog(ctx context.Context, entry LogEntry) {
	if err := e.log.Append(ctx, entry); err != nil {
		e.logger.Warn("failed to append conversation log",
			"session_id", entry.SessionID,
			"role", entry.Role,
			"error", err,
		)
	}
}

func (e *Engine) generate(ctx context.Context, purpose, systemPrompt, message string) Generation {
	gen := e.generator.Generate(ctx, systemPrompt, message)
	e.metrics.ObserveGeneration(purpose, gen.Available)
	return gen
}

func (e *Engine) alertUrgent(ctx context.Context, fb *feedback.Feedback) {
	if e.alerter == nil {
		return
	}
	var patient *patients.Patient
	if fb.PatientID != nil {
		if p, err := e.patients.GetByID(ctx, *fb.PatientID); err == nil {
			patient = p
		}
	}
	if err := e.alerter.AlertUrgentFeedback(ctx, fb, patient); err != nil {
		e.logger.Warn("urgent feedback alert failed", "feedback_id", fb.ID, "error", err)
	}
}

func copyID(id *int64) *int64 {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
