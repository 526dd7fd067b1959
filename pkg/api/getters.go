package api

// TableScoped is implemented by every request addressed to one table.
type TableScoped interface {
	GetTableID() string
}

func (r *GetTableRequest) GetTableID() string        { return r.TableID }
func (r *JoinTableRequest) GetTableID() string       { return r.TableID }
func (r *SetConnectedRequest) GetTableID() string    { return r.TableID }
func (r *AddOrderLineRequest) GetTableID() string    { return r.TableID }
func (r *UpdateQuantityRequest) GetTableID() string  { return r.TableID }
func (r *SetSharingRequest) GetTableID() string      { return r.TableID }
func (r *AssignOrderLineRequest) GetTableID() string { return r.TableID }
func (r *SetTipRequest) GetTableID() string          { return r.TableID }
func (r *GetBreakdownRequest) GetTableID() string    { return r.TableID }
func (r *StartCheckoutRequest) GetTableID() string   { return r.TableID }
func (r *ConfirmSplitRequest) GetTableID() string    { return r.TableID }
func (r *RequestChangeRequest) GetTableID() string   { return r.TableID }
func (r *SettleUpRequest) GetTableID() string        { return r.TableID }
func (r *CloseTableRequest) GetTableID() string      { return r.TableID }
