package medicalrecord

import "errors"

var (
	ErrRecordNotFound          = errors.New("medical record not found")
	ErrAppointmentNotFound     = errors.New("appointment not found")
	ErrAppointmentNotConfirmed = errors.New("medical records can only be created from confirmed appointments")
	ErrRecordExists            = errors.New("a medical record already exists for this appointment")
	ErrIndexOutOfRange         = errors.New("list index out of range")
)
