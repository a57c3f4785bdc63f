// internal/app/committeesvc/service.go
//
// Package committeesvc runs workflow transitions against storage and
// delivers the resulting notifications.
//
// Each transition loads the committee, applies the pure workflow function,
// commits the result with a version check, and only then dispatches
// notifications. Delivery failures are logged and counted; they never undo
// or fail a committed transition.
package committeesvc

import (
	"context"
	"errors"
	"fmt"
	"time"

	committeestore "github.com/dalemusser/committeehub/internal/app/store/committees"
	"github.com/dalemusser/committeehub/internal/app/system/keylock"
	"github.com/dalemusser/committeehub/internal/app/system/metrics"
	"github.com/dalemusser/committeehub/internal/app/system/notify"
	"github.com/dalemusser/committeehub/internal/app/system/timeouts"
	"github.com/dalemusser/committeehub/internal/app/workflow"
	"github.com/dalemusser/committeehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Repository is committee persistence. Save and Delete must fail with
// committeestore.ErrVersionConflict when the stored version moved.
type Repository interface {
	Get(ctx context.Context, id primitive.ObjectID) (models.Committee, error)
	Insert(ctx context.Context, c models.Committee) (models.Committee, error)
	Save(ctx context.Context, c models.Committee) (models.Committee, error)
	Delete(ctx context.Context, id primitive.ObjectID, version int64) error
	FindByRole(ctx context.Context, userID primitive.ObjectID) ([]models.Committee, error)
	List(ctx context.Context, status string) ([]models.Committee, error)
}

// Notifier delivers one message to a set of users.
type Notifier interface {
	Notify(ctx context.Context, recipients []primitive.ObjectID, message, link string) error
}

// AdminDirectory lists the users currently holding admin status.
type AdminDirectory interface {
	ListAdmins(ctx context.Context) ([]primitive.ObjectID, error)
}

// Service is safe for concurrent use.
type Service struct {
	repo     Repository
	notifier Notifier
	admins   AdminDirectory
	metrics  *metrics.Metrics
	log      *zap.Logger

	locks *keylock.Map
	now   func() time.Time
}

// New wires a Service. m and log may be nil.
func New(repo Repository, notifier Notifier, admins AdminDirectory, m *metrics.Metrics, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		repo:     repo,
		notifier: notifier,
		admins:   admins,
		metrics:  m,
		log:      log,
		locks:    keylock.New(),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// SetClock replaces the time source. Tests only.
func (s *Service) SetClock(now func() time.Time) { s.now = now }

/*─────────────────────────────────────────────────────────────────────────────*
| Transitions                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

// Create opens a committee and notifies its chairman.
func (s *Service) Create(ctx context.Context, caller workflow.Caller, in workflow.CreateInput) (workflow.Result, error) {
	res, err := workflow.Create(caller, in, s.now())
	if err != nil {
		return s.fail(workflow.OpCreate, err)
	}
	saved, err := s.repo.Insert(ctx, res.Committee)
	if err != nil {
		return s.fail(workflow.OpCreate, storeErr(workflow.OpCreate, err))
	}
	res.Committee = saved
	s.succeed(ctx, workflow.OpCreate, res)
	return res, nil
}

// Suggest stages the chairman's convener and members.
func (s *Service) Suggest(ctx context.Context, caller workflow.Caller, id primitive.ObjectID, in workflow.SuggestInput) (workflow.Result, error) {
	return s.transition(ctx, workflow.OpSuggest, id, func(c models.Committee) (workflow.Result, error) {
		return workflow.Suggest(c, caller, in, s.now())
	})
}

// Approve promotes the staged proposal to the roster.
func (s *Service) Approve(ctx context.Context, caller workflow.Caller, id primitive.ObjectID) (workflow.Result, error) {
	return s.transition(ctx, workflow.OpApprove, id, func(c models.Committee) (workflow.Result, error) {
		return workflow.Approve(c, caller, s.now())
	})
}

// Reject sends the proposal back to the chairman with a reason.
func (s *Service) Reject(ctx context.Context, caller workflow.Caller, id primitive.ObjectID, in workflow.RejectInput) (workflow.Result, error) {
	return s.transition(ctx, workflow.OpReject, id, func(c models.Committee) (workflow.Result, error) {
		return workflow.Reject(c, caller, in, s.now())
	})
}

// Dissolve deletes the committee.
func (s *Service) Dissolve(ctx context.Context, caller workflow.Caller, id primitive.ObjectID) (workflow.Result, error) {
	return s.transition(ctx, workflow.OpDissolve, id, func(c models.Committee) (workflow.Result, error) {
		return workflow.Dissolve(c, caller)
	})
}

// AddMember appends a row to a formed committee's roster.
func (s *Service) AddMember(ctx context.Context, caller workflow.Caller, id primitive.ObjectID, in workflow.AddMemberInput) (workflow.Result, error) {
	return s.transition(ctx, workflow.OpAddMember, id, func(c models.Committee) (workflow.Result, error) {
		return workflow.AddMember(c, caller, in, s.now())
	})
}

// RemoveMember vacates a slot or drops a roster row.
func (s *Service) RemoveMember(ctx context.Context, caller workflow.Caller, id primitive.ObjectID, key string) (workflow.Result, error) {
	return s.transition(ctx, workflow.OpRemoveMember, id, func(c models.Committee) (workflow.Result, error) {
		return workflow.RemoveMember(c, caller, key, s.now())
	})
}

// transition runs load, apply and commit under the per-committee lock, then
// dispatches outside it.
func (s *Service) transition(ctx context.Context, op string, id primitive.ObjectID, apply func(models.Committee) (workflow.Result, error)) (workflow.Result, error) {
	res, err := s.commit(ctx, op, id, apply)
	if err != nil {
		return s.fail(op, err)
	}
	s.succeed(ctx, op, res)
	return res, nil
}

func (s *Service) commit(ctx context.Context, op string, id primitive.ObjectID, apply func(models.Committee) (workflow.Result, error)) (workflow.Result, error) {
	unlock, err := s.locks.Lock(ctx, id.Hex())
	if err != nil {
		return workflow.Result{}, fmt.Errorf("%s: wait for committee lock: %w", op, err)
	}
	defer unlock()

	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return workflow.Result{}, storeErr(op, err)
	}

	res, err := apply(current)
	if err != nil {
		return workflow.Result{}, err
	}

	if res.Dissolved() {
		if err := s.repo.Delete(ctx, id, current.Version); err != nil {
			return workflow.Result{}, storeErr(op, err)
		}
		return res, nil
	}

	saved, err := s.repo.Save(ctx, res.Committee)
	if err != nil {
		return workflow.Result{}, storeErr(op, err)
	}
	res.Committee = saved
	return res, nil
}

func (s *Service) fail(op string, err error) (workflow.Result, error) {
	s.metrics.Transition(op, Outcome(err))
	return workflow.Result{}, err
}

func (s *Service) succeed(ctx context.Context, op string, res workflow.Result) {
	s.metrics.Transition(op, metrics.OutcomeOK)
	s.log.Info("committee transition",
		zap.String("op", op),
		zap.String("committee_id", res.Committee.ID.Hex()),
		zap.String("status", res.Committee.Status),
		zap.Int64("version", res.Committee.Version),
		zap.Int("events", len(res.Events)))
	s.dispatch(ctx, op, res)
}

/*─────────────────────────────────────────────────────────────────────────────*
| Dispatch                                                                     |
*─────────────────────────────────────────────────────────────────────────────*/

// dispatch delivers the events of a committed transition. It runs on a
// context detached from the request so a client disconnect does not drop
// notifications for a change that already happened.
func (s *Service) dispatch(ctx context.Context, op string, res workflow.Result) {
	if len(res.Events) == 0 || s.notifier == nil {
		return
	}
	start := time.Now()
	defer func() { s.metrics.ObserveDispatch(time.Since(start)) }()

	dctx, cancel := context.WithTimeout(notify.WithDispatchID(context.WithoutCancel(ctx)), timeouts.Dispatch())
	defer cancel()

	log := s.log.With(
		zap.String("op", op),
		zap.String("committee_id", res.Committee.ID.Hex()),
		zap.String("dispatch_id", notify.DispatchID(dctx)))

	var admins []primitive.ObjectID
	var adminsLoaded bool

	for _, ev := range res.Events {
		recipients := ev.Recipients
		if ev.ToAdmins {
			if !adminsLoaded {
				adminsLoaded = true
				ids, err := s.listAdmins(dctx)
				if err != nil {
					log.Warn("could not resolve admin recipients", zap.String("event", string(ev.Kind)), zap.Error(err))
					s.metrics.NotificationsFailed(1)
				}
				admins = ids
			}
			recipients = admins
		}
		recipients = notify.Dedupe(recipients)
		if len(recipients) == 0 {
			continue
		}

		if err := s.notifier.Notify(dctx, recipients, ev.Message, ev.Link); err != nil {
			log.Warn("notification delivery failed",
				zap.String("event", string(ev.Kind)),
				zap.Int("recipients", len(recipients)),
				zap.Error(fmt.Errorf("%w: %v", workflow.ErrNotificationDelivery, err)))
			s.metrics.NotificationsFailed(len(recipients))
			continue
		}
		s.metrics.NotificationsSent(len(recipients))
	}
}

func (s *Service) listAdmins(ctx context.Context) ([]primitive.ObjectID, error) {
	if s.admins == nil {
		return nil, errors.New("no admin directory configured")
	}
	return s.admins.ListAdmins(ctx)
}

/*─────────────────────────────────────────────────────────────────────────────*
| Reads                                                                        |
*─────────────────────────────────────────────────────────────────────────────*/

// Get returns a committee visible to the caller along with the caller's
// roles on it. Admins see every committee; others only those they sit on.
func (s *Service) Get(ctx context.Context, caller workflow.Caller, id primitive.ObjectID) (models.Committee, workflow.RoleSet, error) {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return models.Committee{}, nil, storeErr("getCommittee", err)
	}
	roles := workflow.ResolveRoles(c, caller)
	if !roles.Any() {
		return models.Committee{}, nil, &workflow.Error{Kind: workflow.ErrForbidden, Op: "getCommittee", Msg: "you have no role on this committee"}
	}
	return c, roles, nil
}

// Roles returns the caller's roles on a committee. The set may be empty.
func (s *Service) Roles(ctx context.Context, caller workflow.Caller, id primitive.ObjectID) (workflow.RoleSet, error) {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, storeErr("resolveRoles", err)
	}
	return workflow.ResolveRoles(c, caller), nil
}

// Mine returns the committees where the caller is chairman, convener or a
// member.
func (s *Service) Mine(ctx context.Context, caller workflow.Caller) ([]models.Committee, error) {
	out, err := s.repo.FindByRole(ctx, caller.UserID)
	if err != nil {
		return nil, fmt.Errorf("findByRole: %w", err)
	}
	return out, nil
}

// List returns every committee, optionally filtered by status. Admin only.
func (s *Service) List(ctx context.Context, caller workflow.Caller, status string) ([]models.Committee, error) {
	if !caller.IsAdmin() {
		return nil, &workflow.Error{Kind: workflow.ErrForbidden, Op: "listCommittees", Msg: "only an admin can list all committees"}
	}
	switch status {
	case "", models.StatusPendingSuggestions, models.StatusPendingApproval, models.StatusFormed:
	default:
		return nil, &workflow.Error{Kind: workflow.ErrValidation, Op: "listCommittees", Msg: fmt.Sprintf("unknown status %q", status)}
	}
	out, err := s.repo.List(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("listCommittees: %w", err)
	}
	return out, nil
}

/*─────────────────────────────────────────────────────────────────────────────*
| Errors                                                                       |
*─────────────────────────────────────────────────────────────────────────────*/

// storeErr translates store sentinels into workflow kinds.
func storeErr(op string, err error) error {
	switch {
	case errors.Is(err, committeestore.ErrNotFound):
		return &workflow.Error{Kind: workflow.ErrNotFound, Op: op, Msg: "committee not found"}
	case errors.Is(err, committeestore.ErrVersionConflict):
		return &workflow.Error{Kind: workflow.ErrConcurrentModification, Op: op, Msg: "the committee was changed by someone else; reload and try again"}
	}
	return fmt.Errorf("%s: %w", op, err)
}

// Outcome maps an error to its metrics label.
func Outcome(err error) string {
	switch workflow.Kind(err) {
	case nil:
		if err == nil {
			return metrics.OutcomeOK
		}
		return metrics.OutcomeError
	case workflow.ErrValidation:
		return metrics.OutcomeValidation
	case workflow.ErrForbidden:
		return metrics.OutcomeForbidden
	case workflow.ErrNotFound:
		return metrics.OutcomeNotFound
	case workflow.ErrInvalidTransition:
		return metrics.OutcomeInvalidTransition
	case workflow.ErrConcurrentModification:
		return metrics.OutcomeConflict
	}
	return metrics.OutcomeError
}
