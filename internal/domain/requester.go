package domain

// Requester вызывающий пользователь, определяется один раз на границе API
type Requester struct {
	ID          int64
	IsAdmin     bool
	FacilityIDs []int64
}

// IsStaffOf returns true if the requester works at the facility
func (r Requester) IsStaffOf(facilityID int64) bool {
	for _, id := range r.FacilityIDs {
		if id == facilityID {
			return true
		}
	}
	return false
}

// CanManageFacility returns true for admins and facility staff
func (r Requester) CanManageFacility(facilityID int64) bool {
	return r.IsAdmin || r.IsStaffOf(facilityID)
}

// CanMutate returns true if the requester may change the booking:
// admin, owner, or staff of any of the given facilities
func (r Requester) CanMutate(b *Booking, facilityIDs []int64) bool {
	if r.IsAdmin || b.IsOwnedBy(r.ID) {
		return true
	}
	for _, id := range facilityIDs {
		if r.IsStaffOf(id) {
			return true
		}
	}
	return false
}
