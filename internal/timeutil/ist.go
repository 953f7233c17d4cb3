package timeutil

import "time"

// IST is the Indian Standard Time location (UTC+5:30). All customer-facing
// timestamps (audit fields, OTP expiry, notification ages) are computed in IST.
var IST *time.Location

func init() {
	var err error
	IST, err = time.LoadLocation("Asia/Kolkata")
	if err != nil {
		IST = time.FixedZone("IST", 5*60*60+30*60)
	}
}

// Now returns the current time in IST.
func Now() time.Time {
	return time.Now().In(IST)
}

// ToIST converts any time to IST.
func ToIST(t time.Time) time.Time {
	return t.In(IST)
}

// DateTimeLayout matches the timestamp format stored in audit columns.
const DateTimeLayout = "2006-01-02 15:04:05"
