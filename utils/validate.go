package utils

import (
	"regexp"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func ValidateEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidatePhone 校验印尼手机号（08 开头，10~13 位）
func ValidatePhone(phone string) bool {
	matched, _ := regexp.MatchString(`^08\d{8,11}$`, phone)
	return matched
}

// ValidateCoordinates 校验经纬度取值范围
func ValidateCoordinates(latitude, longitude float64) bool {
	if latitude < -90 || latitude > 90 {
		return false
	}
	if longitude < -180 || longitude > 180 {
		return false
	}
	return true
}
