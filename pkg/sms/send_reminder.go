package sms

import (
	"context"
	"encoding/json"
	"fmt"

	"Presensia/config"
)

// SendCheckoutReminderSMS 发送忘签退提醒短信
// name: 用户姓名，填入模板变量
// checkInTime: 签到时间的展示串，如 "08:12"
func SendCheckoutReminderSMS(ctx context.Context, phone, name, checkInTime string) (*SendResponse, error) {
	cfg := config.Cfg

	templateParam := map[string]string{
		"name":     name,
		"check_in": checkInTime,
	}
	paramJSON, err := json.Marshal(templateParam)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal template param: %w", err)
	}

	return SendSingle(ctx, phone, cfg.SMSSignName, cfg.SMSTemplateCode, string(paramJSON))
}
