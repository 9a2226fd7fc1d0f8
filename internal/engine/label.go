package engine

import (
	"context"

	"github.com/OfficeXApp/drive-engine/internal/label"
	"github.com/OfficeXApp/drive-engine/internal/webhook"
)

// CreateLabel validates and inserts a new label record (spec §4.7).
func (e *Engine) CreateLabel(value, color, publicNote, privateNote, actorID string) (*label.Label, error) {
	pre, err := e.Chain.Prestate(e)
	if err != nil {
		return nil, err
	}

	l, err := e.Labels.Create(value, color, publicNote, privateNote, actorID)
	if err != nil {
		return nil, err
	}

	e.commit(pre, "create label "+value)
	e.reindexAll()

	return l, nil
}

// RenameLabel applies spec §4.7's update_label_string_value: changes a
// label's value and notifies LabelRemoved subscribers on the old value and
// LabelAdded subscribers on the new value, since the cascade is keyed on
// the value itself rather than the label's ID.
func (e *Engine) RenameLabel(labelID, newValue, actorID string) (*label.Label, error) {
	pre, err := e.Chain.Prestate(e)
	if err != nil {
		return nil, err
	}

	oldValue, resourceIDs, err := e.Labels.RenameValue(labelID, newValue)
	if err != nil {
		return nil, err
	}

	l, err := e.Labels.Get(labelID)
	if err != nil {
		return nil, err
	}

	e.commit(pre, "rename label "+oldValue+" to "+newValue)
	e.reindexAll()

	if len(resourceIDs) > 0 {
		removed := e.Webhooks.ResolveSystem(webhook.LabelRemoved, oldValue)
		e.Dispatch.Dispatch(context.Background(), removed, oldValue, resourceIDs, "")

		added := e.Webhooks.ResolveSystem(webhook.LabelAdded, newValue)
		e.Dispatch.Dispatch(context.Background(), added, newValue, resourceIDs, "")
	}

	return l, nil
}

// DeleteLabel removes a label and detaches it from every resource it was
// attached to, firing LabelRemoved for that alt-index (spec §4.7,
// "Deleting a label removes it from every attached resource").
func (e *Engine) DeleteLabel(labelID, actorID string) ([]string, error) {
	pre, err := e.Chain.Prestate(e)
	if err != nil {
		return nil, err
	}

	l, err := e.Labels.Get(labelID)
	if err != nil {
		return nil, err
	}

	resourceIDs, err := e.Labels.Delete(labelID)
	if err != nil {
		return nil, err
	}

	e.commit(pre, "delete label "+l.Value)
	e.reindexAll()

	if len(resourceIDs) > 0 {
		targets := e.Webhooks.ResolveSystem(webhook.LabelRemoved, l.Value)
		e.Dispatch.Dispatch(context.Background(), targets, l.Value, resourceIDs, "")
	}

	return resourceIDs, nil
}

// AttachLabel records that resourceID now carries labelID's value,
// firing LabelAdded for subscribers watching that value.
func (e *Engine) AttachLabel(labelID, resourceID, actorID string) error {
	pre, err := e.Chain.Prestate(e)
	if err != nil {
		return err
	}

	if err := e.Labels.Attach(labelID, resourceID); err != nil {
		return err
	}

	l, err := e.Labels.Get(labelID)
	if err != nil {
		return err
	}

	e.commit(pre, "attach label "+l.Value+" to "+resourceID)

	targets := e.Webhooks.ResolveSystem(webhook.LabelAdded, l.Value)
	e.Dispatch.Dispatch(context.Background(), targets, nil, resourceID, "")

	return nil
}

// DetachLabel is AttachLabel's inverse, firing LabelRemoved.
func (e *Engine) DetachLabel(labelID, resourceID, actorID string) error {
	pre, err := e.Chain.Prestate(e)
	if err != nil {
		return err
	}

	l, err := e.Labels.Get(labelID)
	if err != nil {
		return err
	}

	if err := e.Labels.Detach(labelID, resourceID); err != nil {
		return err
	}

	e.commit(pre, "detach label "+l.Value+" from "+resourceID)

	targets := e.Webhooks.ResolveSystem(webhook.LabelRemoved, l.Value)
	e.Dispatch.Dispatch(context.Background(), targets, resourceID, nil, "")

	return nil
}

// PinLabel pins or unpins a label, moving a pinned label to the front of
// label listing order (spec SPEC_FULL.md §C.3, "Label pinning", carried
// forward from the original's labels/pin route).
func (e *Engine) PinLabel(labelID string, pinned bool) (*label.Label, error) {
	pre, err := e.Chain.Prestate(e)
	if err != nil {
		return nil, err
	}

	if err := e.Labels.Pin(labelID, pinned); err != nil {
		return nil, err
	}

	l, err := e.Labels.Get(labelID)
	if err != nil {
		return nil, err
	}

	e.commit(pre, "pin label "+l.Value)

	return l, nil
}

// ListLabels returns every label, pinned first (spec §4.7, "Label
// pinning").
func (e *Engine) ListLabels() []*label.Label {
	return e.Labels.List()
}
