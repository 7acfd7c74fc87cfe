package api

// GroupScoped is implemented by every request that targets one group.
type GroupScoped interface {
	GetGroupID() string
}

func (x *GetGroupRequest) GetGroupID() string {
	if x == nil {
		return ""
	}
	return x.GroupID
}

func (x *DeleteGroupRequest) GetGroupID() string {
	if x == nil {
		return ""
	}
	return x.GroupID
}

func (x *AddMemberRequest) GetGroupID() string {
	if x == nil {
		return ""
	}
	return x.GroupID
}

func (x *AddPurchaseRequest) GetGroupID() string {
	if x == nil {
		return ""
	}
	return x.GroupID
}

func (x *AddTransferRequest) GetGroupID() string {
	if x == nil {
		return ""
	}
	return x.GroupID
}

func (x *UpdateEntryRequest) GetGroupID() string {
	if x == nil {
		return ""
	}
	return x.GroupID
}

func (x *RemoveEntryRequest) GetGroupID() string {
	if x == nil {
		return ""
	}
	return x.GroupID
}

func (x *SetExchangeRateRequest) GetGroupID() string {
	if x == nil {
		return ""
	}
	return x.GroupID
}

func (x *GetBalancesRequest) GetGroupID() string {
	if x == nil {
		return ""
	}
	return x.GroupID
}

func (x *SettleUpRequest) GetGroupID() string {
	if x == nil {
		return ""
	}
	return x.GroupID
}
