package http

import (
	"github.com/veilhq/veil/internal/broker/domain"
	"github.com/veilhq/veil/internal/broker/service"
	"github.com/veilhq/veil/pkg/brokersdk"
)

func profileView(u domain.User) brokersdk.ProfileResponse {
	return brokersdk.ProfileResponse{
		ID:            u.ID,
		Email:         u.Email,
		Phone:         u.Phone,
		IDNumber:      u.IDNumber,
		DisplayName:   u.DisplayName,
		PseudoHandle:  u.PseudoHandle,
		EmailVerified: u.EmailVerified,
		PhoneVerified: u.PhoneVerified,
		State:         string(u.VerificationState()),
		MFAChannel:    string(u.MFAChannel),
	}
}

func statusView(s service.VerificationStatus) brokersdk.VerificationStatusResponse {
	return brokersdk.VerificationStatusResponse{
		EmailVerified: s.EmailVerified,
		PhoneVerified: s.PhoneVerified,
		State:         string(s.State),
	}
}

func permissionView(p domain.Permission) brokersdk.PermissionResponse {
	return brokersdk.PermissionResponse{
		ID:              p.ID,
		CompanyID:       p.CompanyID,
		EmailAllowed:    p.EmailAllowed,
		PhoneAllowed:    p.PhoneAllowed,
		IDNumberAllowed: p.IDNumberAllowed,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

func companyView(c domain.Company) brokersdk.CompanyResponse {
	return brokersdk.CompanyResponse{
		ID:         c.ID,
		Name:       c.Name,
		ExternalID: c.ExternalID,
		Segment:    c.Segment,
		Suspended:  c.Suspended,
	}
}
