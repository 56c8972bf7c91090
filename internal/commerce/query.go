package commerce

const mediaFields = `
  fragment MediaFields on Media {
    mediaContentType
    alt
    previewImage {
      url
      width
      height
    }
    ... on MediaImage {
      id
      image {
        id
        url
        altText
        width
        height
      }
    }
    ... on Video {
      id
      sources {
        mimeType
        url
      }
    }
    ... on Model3d {
      id
      sources {
        mimeType
        url
      }
    }
    ... on ExternalVideo {
      id
      embedUrl
      host
    }
  }
`

const variantFields = `
  fragment VariantFields on ProductVariant {
    id
    title
    sku
    availableForSale
    selectedOptions {
      name
      value
    }
    priceV2 {
      amount
      currencyCode
    }
    compareAtPriceV2 {
      amount
      currencyCode
    }
    image {
      id
      url
      altText
      width
      height
    }
  }
`

const productQuery = mediaFields + variantFields + `
  query Product($handle: String!) {
    product(handle: $handle) {
      id
      handle
      title
      vendor
      descriptionHtml
      options {
        name
        values
      }
      media(first: 7) {
        nodes {
          ...MediaFields
        }
      }
      variants(first: 100) {
        nodes {
          ...VariantFields
        }
      }
      seo {
        title
        description
      }
    }
  }
`

// The listing only needs the first variant for card pricing.
const productsQuery = variantFields + `
  query Products($first: Int!) {
    products(first: $first) {
      nodes {
        id
        handle
        title
        vendor
        variants(first: 1) {
          nodes {
            ...VariantFields
          }
        }
      }
    }
  }
`
