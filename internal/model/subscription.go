package model

// ==================== 套餐常量 ====================

const (
	PlanFree      = "free"
	PlanPro       = "pro"
	PlanUnlimited = "unlimited"

	// 限额为 -1 表示不限
	LimitUnlimited = -1
)

// Plan 静态套餐定义，迁移时播种
type Plan struct {
	BaseModel
	Code              string  `gorm:"size:50;uniqueIndex" json:"code"`
	Name              string  `gorm:"size:100" json:"name"`
	MaxTemplates      int     `json:"max_templates"`
	MaxAssignments    int     `json:"max_assignments"`
	AllowCustomOrders bool    `json:"allow_custom_orders"` // 是否允许定制下单
	MonthlyPrice      float64 `json:"monthly_price"`
}

func (Plan) TableName() string { return "plans" }

// Allows 判断用量是否在限额内
func (p *Plan) Allows(limit int, used int64) bool {
	return limit == LimitUnlimited || used < int64(limit)
}

// Subscription 店铺套餐归属，每店铺恰好一条，首次访问默认 free
type Subscription struct {
	BaseModel
	Shop     string `gorm:"size:255;uniqueIndex" json:"shop"`
	PlanCode string `gorm:"size:50" json:"plan_code"`
	Status   string `gorm:"size:20;default:active" json:"status"`
}

func (Subscription) TableName() string { return "subscriptions" }

// SeedPlans 内置套餐表
func SeedPlans() []Plan {
	return []Plan{
		{Code: PlanFree, Name: "Free", MaxTemplates: 3, MaxAssignments: 25, AllowCustomOrders: false, MonthlyPrice: 0},
		{Code: PlanPro, Name: "Pro", MaxTemplates: 20, MaxAssignments: 500, AllowCustomOrders: true, MonthlyPrice: 9.99},
		{Code: PlanUnlimited, Name: "Unlimited", MaxTemplates: LimitUnlimited, MaxAssignments: LimitUnlimited, AllowCustomOrders: true, MonthlyPrice: 29.99},
	}
}
