package rates

import (
	"github.com/m04kA/SMC-FacilityBooking/pkg/dbmetrics"
)

type DBExecutor = dbmetrics.DBExecutor

type rowScanner interface {
	Scan(dest ...interface{}) error
}
