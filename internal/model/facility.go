package model

import (
    "time"

    "github.com/shopspring/decimal"
)

// FacilityType categorizes facilities (e.g. "football pitch",
// "conference room").  Deleting a type is restricted while any
// facility still references it.
//
// Fields:
//  ID        – primary key identifier.
//  Name      – unique type name.
//  CreatedAt – timestamp of creation.
type FacilityType struct {
    ID        uint64    // facility_types.id
    Name      string    // facility_types.name
    CreatedAt time.Time // facility_types.created_at
}

// Facility represents a bookable physical resource with an hourly
// price and a set of owners.  The owner set lives in the
// facility_owners association table and is loaded on demand by the
// repository; there is no implicit lazy loading.
//
// Fields:
//  ID           – primary key identifier.
//  TypeID       – reference into facility_types.
//  Name         – display name.
//  Description  – optional free text.
//  Address      – street address.
//  Lat, Lon     – coordinates, validated at the API boundary.
//  PricePerHour – hourly rate, exact decimal with 2 fractional digits.
//  ImageURL     – promotional image location.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type Facility struct {
    ID           uint64          // facilities.id
    TypeID       uint64          // facilities.type_id
    Name         string          // facilities.name
    Description  *string         // facilities.description (nullable)
    Address      string          // facilities.address
    Lat          decimal.Decimal // facilities.lat
    Lon          decimal.Decimal // facilities.lon
    PricePerHour decimal.Decimal // facilities.price_per_hour
    ImageURL     string          // facilities.image_url
    CreatedAt    time.Time       // facilities.created_at
    UpdatedAt    time.Time       // facilities.updated_at
}
