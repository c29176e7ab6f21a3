package model

// ShopOwner 商家账号，首次安装 App 时创建
// 一个账号可拥有多个店铺
type ShopOwner struct {
	BaseModel
	Email string `gorm:"size:255;uniqueIndex"`
	Name  string `gorm:"size:100"`

	Shops []Shop `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"`
}
