package lifecycle

import (
	"context"

	"github.com/ukydev/fleet-crm/internal/models"
)

// CreateRider prepares a new rider for insertion.
func (p *Pipeline) CreateRider(r *models.Rider, actor string) error {
	r.ApplyDefaults()
	if err := models.Validate(r); err != nil {
		return err
	}
	p.stampCreate(r, actor)
	return nil
}

// UpdateRider prepares a merged rider for replacement.
func (p *Pipeline) UpdateRider(prev, next *models.Rider, actor string) error {
	next.ID = prev.ID
	if err := models.Validate(next); err != nil {
		return err
	}
	p.stampUpdate(prev, next, actor)
	return nil
}

// CreateVehicle prepares a new vehicle for insertion.
func (p *Pipeline) CreateVehicle(v *models.Vehicle, actor string) error {
	v.ApplyDefaults()
	if err := models.Validate(v); err != nil {
		return err
	}
	p.stampCreate(v, actor)
	return nil
}

// UpdateVehicle prepares a merged vehicle for replacement.
func (p *Pipeline) UpdateVehicle(prev, next *models.Vehicle, actor string) error {
	next.ID = prev.ID
	if err := models.Validate(next); err != nil {
		return err
	}
	p.stampUpdate(prev, next, actor)
	return nil
}

// CreateAssignment prepares a new assignment for insertion. The vehicle
// exclusivity check belongs to the storage layer.
func (p *Pipeline) CreateAssignment(a *models.Assignment, actor string) error {
	a.ApplyDefaults()
	if err := models.Validate(a); err != nil {
		return err
	}
	p.stampCreate(a, actor)
	return nil
}

// UpdateAssignment prepares a merged assignment for replacement.
func (p *Pipeline) UpdateAssignment(prev, next *models.Assignment, actor string) error {
	next.ID = prev.ID
	next.DeriveStatus()
	if err := prev.Status.CheckTransition(next.Status); err != nil {
		return err
	}
	if !next.IsActive() && next.EndDate == nil {
		now := p.now()
		next.EndDate = &now
	}
	if err := models.Validate(next); err != nil {
		return err
	}
	p.stampUpdate(prev, next, actor)
	return nil
}

// CreateFault prepares a new fault: validate, number, stamp.
func (p *Pipeline) CreateFault(ctx context.Context, f *models.Fault, actor string) error {
	f.ApplyDefaults(p.now())
	if err := models.Validate(f); err != nil {
		return err
	}
	seq, err := p.allocate(ctx, models.SequenceFault, "")
	if err != nil {
		return err
	}
	f.SequenceNumber = seq
	p.stampResolved(f, nil)
	p.stampCreate(f, actor)
	return nil
}

// UpdateFault prepares a merged fault. The sequence number never changes.
func (p *Pipeline) UpdateFault(prev, next *models.Fault, actor string) error {
	next.ID = prev.ID
	next.SequenceNumber = prev.SequenceNumber
	if err := prev.Status.CheckTransition(next.Status); err != nil {
		return err
	}
	if err := models.Validate(next); err != nil {
		return err
	}
	p.stampResolved(next, prev)
	p.stampUpdate(prev, next, actor)
	return nil
}

func (p *Pipeline) stampResolved(next, prev *models.Fault) {
	resolved := next.Status == models.FaultResolved || next.Status == models.FaultClosed
	switch {
	case resolved && next.ResolvedAt == nil:
		now := p.now()
		next.ResolvedAt = &now
	case !resolved && prev != nil && next.Status != prev.Status:
		next.ResolvedAt = nil
	}
}

// CreateMaintenance prepares a new maintenance record: validate, number,
// total, stamp.
func (p *Pipeline) CreateMaintenance(ctx context.Context, m *models.Maintenance, actor string) error {
	m.ApplyDefaults()
	if err := models.Validate(m); err != nil {
		return err
	}
	seq, err := p.allocate(ctx, models.SequenceMaintenance, "")
	if err != nil {
		return err
	}
	m.SequenceNumber = seq
	m.RecomputeTotal()
	p.stampCreate(m, actor)
	return nil
}

// UpdateMaintenance prepares a merged maintenance record. The total is
// recomputed on every save.
func (p *Pipeline) UpdateMaintenance(prev, next *models.Maintenance, actor string) error {
	next.ID = prev.ID
	next.SequenceNumber = prev.SequenceNumber
	if err := prev.Status.CheckTransition(next.Status); err != nil {
		return err
	}
	if err := models.Validate(next); err != nil {
		return err
	}
	next.RecomputeTotal()
	p.stampUpdate(prev, next, actor)
	return nil
}

// CreateMonthlyCheck prepares a new monthly check.
func (p *Pipeline) CreateMonthlyCheck(c *models.MonthlyCheck, actor string) error {
	c.ApplyDefaults()
	if err := models.Validate(c); err != nil {
		return err
	}
	p.stampCompletedCheck(c)
	p.stampCreate(c, actor)
	return nil
}

// UpdateMonthlyCheck prepares a merged monthly check.
func (p *Pipeline) UpdateMonthlyCheck(prev, next *models.MonthlyCheck, actor string) error {
	next.ID = prev.ID
	if err := prev.Status.CheckTransition(next.Status); err != nil {
		return err
	}
	if err := models.Validate(next); err != nil {
		return err
	}
	p.stampCompletedCheck(next)
	p.stampUpdate(prev, next, actor)
	return nil
}

func (p *Pipeline) stampCompletedCheck(c *models.MonthlyCheck) {
	if c.Status == models.CheckCompleted && c.CompletedAt == nil {
		now := p.now()
		c.CompletedAt = &now
	}
}

// CreateTask prepares a new task.
func (p *Pipeline) CreateTask(t *models.Task, actor string) error {
	t.ApplyDefaults()
	if err := models.Validate(t); err != nil {
		return err
	}
	p.stampCompletedTask(t)
	p.stampCreate(t, actor)
	return nil
}

// UpdateTask prepares a merged task.
func (p *Pipeline) UpdateTask(prev, next *models.Task, actor string) error {
	next.ID = prev.ID
	if err := prev.Status.CheckTransition(next.Status); err != nil {
		return err
	}
	if err := models.Validate(next); err != nil {
		return err
	}
	p.stampCompletedTask(next)
	p.stampUpdate(prev, next, actor)
	return nil
}

func (p *Pipeline) stampCompletedTask(t *models.Task) {
	if t.Status == models.TaskCompleted && t.CompletedAt == nil {
		now := p.now()
		t.CompletedAt = &now
	}
}
